package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/haivivi/buzzerbox/pkg/audio/pcm"
	"github.com/haivivi/buzzerbox/pkg/buzzer"
	"github.com/haivivi/buzzerbox/pkg/cli"
	"github.com/haivivi/buzzerbox/pkg/gpio"
	"github.com/haivivi/buzzerbox/pkg/melody"
	"github.com/haivivi/buzzerbox/pkg/tone"
	"github.com/haivivi/buzzerbox/pkg/tone/speaker"
)

// captureFormat is the format of pcm_file output.
const captureFormat = pcm.L16Mono16K

// ========== Edge Logging ==========

// edgeLogPin wraps the simulated button and logs its raw edges. A bounce
// train produces dozens of edges in a few milliseconds; the limiter keeps the
// log readable.
type edgeLogPin struct {
	*gpio.SimPin
	limiter *rate.Limiter
	log     *slog.Logger
	edges   atomic.Int64
	dropped atomic.Int64
}

func newEdgeLogPin(pin *gpio.SimPin, log *slog.Logger) *edgeLogPin {
	return &edgeLogPin{
		SimPin:  pin,
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 3),
		log:     log,
	}
}

// SetInterrupt implements gpio.Pin.
func (p *edgeLogPin) SetInterrupt(e gpio.Edge, handler func()) error {
	if handler == nil {
		return p.SimPin.SetInterrupt(e, nil)
	}
	return p.SimPin.SetInterrupt(e, func() {
		n := p.edges.Add(1)
		if p.limiter.Allow() {
			p.log.Debug("button edge", "n", n, "level", p.SimPin.Get(), "suppressed", p.dropped.Swap(0))
		} else {
			p.dropped.Add(1)
		}
		handler()
	})
}

// ========== Simulator ==========

// SimulatorConfig configures a Simulator.
type SimulatorConfig struct {
	Settings *cli.Context
	Logger   *slog.Logger

	// OnStep is called before each melody step, in addition to the
	// simulator's own accounting.
	OnStep buzzer.StepFunc
}

// Simulator is a buzzer Device wired to a simulated button and the output
// chosen by the context.
type Simulator struct {
	pin     *gpio.SimPin
	edges   *edgeLogPin
	device  *buzzer.Device
	trace   *tone.Trace
	log     *slog.Logger
	output  string
	traceTo string

	speaker *speaker.Speaker
	capture *tone.Capture
	pcmFile *os.File

	steps   atomic.Int64
	started time.Time
}

// NewSimulator opens the configured output and builds the device.
func NewSimulator(cfg SimulatorConfig) (*Simulator, error) {
	settings := cfg.Settings
	if settings == nil {
		settings = cli.DefaultContext()
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	s := &Simulator{
		pin:     gpio.NewSimPin(false),
		trace:   tone.NewTrace(),
		log:     log,
		output:  settings.OutputOrDefault(),
		traceTo: settings.TraceFile,
	}
	s.edges = newEdgeLogPin(s.pin, log)

	pwm := tone.Tee{s.trace}
	switch s.output {
	case cli.OutputSpeaker:
		if !speaker.Available {
			return nil, fmt.Errorf("speaker output is not available in this build; use --output=pcm or --output=none")
		}
		osc := tone.NewOscillator(pcm.L16Mono44K)
		spk, err := speaker.Open(osc)
		if err != nil {
			return nil, err
		}
		s.speaker = spk
		pwm = append(pwm, osc)
	case cli.OutputPCM:
		f, err := os.Create(settings.PCMFile)
		if err != nil {
			return nil, fmt.Errorf("create pcm file: %w", err)
		}
		s.pcmFile = f
		s.capture = tone.NewCapture(pcm.ChunkWriter(f), captureFormat)
		pwm = append(pwm, s.capture)
	}

	player := buzzer.DefaultPlayerConfig()
	player.AbortOnRelease = settings.AbortOnRelease

	onStep := cfg.OnStep
	dev, err := buzzer.NewDevice(buzzer.DeviceConfig{
		Button: s.edges,
		PWM:    pwm,
		Tone:   tone.DefaultConfig(),
		Player: player,
		Logger: log,
		OnStep: func(i int, step melody.Step) {
			s.steps.Add(1)
			if onStep != nil {
				onStep(i, step)
			}
		},
	})
	if err != nil {
		s.closeOutputs()
		return nil, err
	}
	s.device = dev
	return s, nil
}

// Start starts the device.
func (s *Simulator) Start(ctx context.Context) error {
	s.started = time.Now()
	return s.device.Start(ctx)
}

// Pin returns the simulated button.
func (s *Simulator) Pin() *gpio.SimPin {
	return s.pin
}

// Device returns the simulated device.
func (s *Simulator) Device() *buzzer.Device {
	return s.device
}

// Trace returns the record of every PWM call.
func (s *Simulator) Trace() *tone.Trace {
	return s.trace
}

// Output returns the active output name.
func (s *Simulator) Output() string {
	return s.output
}

// WaitIdle blocks until at least want melodies have finished and the
// button state has been cleared.
func (s *Simulator) WaitIdle(ctx context.Context, want int) error {
	tick := time.NewTicker(buzzer.DefaultPollInterval)
	defer tick.Stop()
	for {
		if s.device.Player().Finished() >= want && !s.device.Pressed() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.device.Done():
			return errors.New("playback task stopped")
		case <-tick.C:
		}
	}
}

// Summary describes what the simulator has done so far.
type Summary struct {
	Output   string        `json:"output" yaml:"output"`
	Edges    int64         `json:"edges" yaml:"edges"`
	Commits  uint64        `json:"commits" yaml:"commits"`
	Melodies int           `json:"melodies" yaml:"melodies"`
	Steps    int64         `json:"steps" yaml:"steps"`
	Tones    int           `json:"tones" yaml:"tones"`
	PCMBytes int64         `json:"pcm_bytes" yaml:"pcm_bytes"`
	Elapsed  time.Duration `json:"elapsed" yaml:"elapsed"`
}

// Summary returns the current counters.
func (s *Simulator) Summary() Summary {
	sum := Summary{
		Output:   s.output,
		Edges:    s.edges.edges.Load(),
		Commits:  s.device.Debouncer().Commits(),
		Melodies: s.device.Player().Finished(),
		Steps:    s.steps.Load(),
	}
	for _, seg := range s.trace.Segments() {
		if !seg.Silent() {
			sum.Tones++
		}
	}
	if s.capture != nil {
		sum.PCMBytes = s.capture.Written()
	}
	if !s.started.IsZero() {
		sum.Elapsed = time.Since(s.started)
	}
	return sum
}

// Close stops the debounce timer, closes the output and writes the trace
// file if one is configured. The playback task stops with its context.
func (s *Simulator) Close() error {
	s.device.Debouncer().Stop()
	errs := []error{s.closeOutputs()}
	if s.traceTo != "" {
		errs = append(errs, s.writeTrace())
	}
	return errors.Join(errs...)
}

func (s *Simulator) closeOutputs() error {
	var errs []error
	if s.speaker != nil {
		errs = append(errs, s.speaker.Close())
	}
	if s.capture != nil {
		errs = append(errs, s.capture.Close())
	}
	if s.pcmFile != nil {
		errs = append(errs, s.pcmFile.Close())
	}
	return errors.Join(errs...)
}

func (s *Simulator) writeTrace() error {
	f, err := os.Create(s.traceTo)
	if err != nil {
		return fmt.Errorf("create trace file: %w", err)
	}
	if err := s.trace.Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("write trace: %w", err)
	}
	return f.Close()
}

// newLogger returns a text logger at the context's level.
func newLogger(w io.Writer, settings *cli.Context) (*slog.Logger, error) {
	level, err := cli.ParseLogLevel(settings.LogLevel)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}
