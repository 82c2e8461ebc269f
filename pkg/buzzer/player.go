// Package buzzer ties the debounced button to melody playback.
//
// A Device owns everything the firmware keeps for its whole lifetime: the
// ButtonState, the debounce timer, the tone driver and the playback task.
// The Player is that task: it polls the ButtonState and, when the button is
// held, plays the melody from start to end before looking at the button
// again.
package buzzer

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/haivivi/buzzerbox/pkg/debounce"
	"github.com/haivivi/buzzerbox/pkg/gpio"
	"github.com/haivivi/buzzerbox/pkg/melody"
)

const (
	// DefaultPollInterval is how long the task sleeps between looks at the
	// button state.
	DefaultPollInterval = 10 * time.Millisecond

	// DefaultGap is the silence after each sounded note.
	DefaultGap = 10 * time.Millisecond
)

// Tone is the output the player drives.
type Tone interface {
	Tone(freq float64)
	Silence()
}

// Sleeper suspends the calling goroutine.
type Sleeper interface {
	Sleep(d time.Duration)
}

// SleepFunc adapts a function to Sleeper.
type SleepFunc func(time.Duration)

// Sleep implements Sleeper.
func (f SleepFunc) Sleep(d time.Duration) { f(d) }

// StepFunc observes each melody step just before it is played.
type StepFunc func(i int, s melody.Step)

// PlayerConfig configures a Player.
type PlayerConfig struct {
	Melody       melody.Melody
	Tempo        melody.Tempo
	PollInterval time.Duration
	Gap          time.Duration

	// AbortOnRelease stops a melody at the next step once the button is
	// up, either in the shared state or on the pin. Off by default: a
	// started melody always completes.
	AbortOnRelease bool
}

// DefaultPlayerConfig returns the device's fixed tune and timing.
func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		Melody:       melody.Default,
		Tempo:        melody.DefaultTempo,
		PollInterval: DefaultPollInterval,
		Gap:          DefaultGap,
	}
}

// Player is the playback task.
type Player struct {
	cfg    PlayerConfig
	state  *debounce.ButtonState
	pin    gpio.Pin
	tone   Tone
	sleep  Sleeper
	log    *slog.Logger
	onStep StepFunc

	plays    atomic.Int64
	finished atomic.Int64
}

// PlayerOption configures a Player.
type PlayerOption func(*Player)

// WithSleeper replaces time.Sleep.
func WithSleeper(s Sleeper) PlayerOption {
	return func(p *Player) {
		p.sleep = s
	}
}

// WithPlayerLogger sets the logger.
func WithPlayerLogger(l *slog.Logger) PlayerOption {
	return func(p *Player) {
		p.log = l
	}
}

// OnStep registers a callback invoked before each step is played.
func OnStep(f StepFunc) PlayerOption {
	return func(p *Player) {
		p.onStep = f
	}
}

// NewPlayer creates the playback task. It reads state, drives tone, and reads
// pin directly after each melody. Zero or negative config fields take their
// defaults.
func NewPlayer(cfg PlayerConfig, state *debounce.ButtonState, pin gpio.Pin, tone Tone, opts ...PlayerOption) *Player {
	def := DefaultPlayerConfig()
	if cfg.Melody == nil {
		cfg.Melody = def.Melody
	}
	if cfg.Tempo.BPM <= 0 {
		cfg.Tempo = def.Tempo
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.Gap <= 0 {
		cfg.Gap = def.Gap
	}
	p := &Player{
		cfg:   cfg,
		state: state,
		pin:   pin,
		tone:  tone,
		sleep: SleepFunc(time.Sleep),
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Config returns the player's configuration.
func (p *Player) Config() PlayerConfig {
	return p.cfg
}

// Plays returns how many melodies the task has started.
func (p *Player) Plays() int {
	return int(p.plays.Load())
}

// Finished returns how many melodies have ended with the output silenced.
func (p *Player) Finished() int {
	return int(p.finished.Load())
}

// Run is the task loop. It returns when ctx is done; ctx is only checked
// between melodies, never during one.
func (p *Player) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if p.state.Pressed() {
			p.Play()
			if !p.pin.Get() {
				p.state.Clear()
			}
		}
		p.sleep.Sleep(p.cfg.PollInterval)
	}
}

// Play plays the melody once and leaves the output silent. It returns the
// number of steps played.
func (p *Player) Play() int {
	p.plays.Add(1)
	log := p.log.With("run", uuid.NewString())
	log.Info("beginning melody", "steps", len(p.cfg.Melody), "bpm", p.cfg.Tempo.BPM)

	played := 0
	for i, s := range p.cfg.Melody {
		if p.cfg.AbortOnRelease && p.released() {
			log.Info("melody aborted", "at", i)
			break
		}
		if p.onStep != nil {
			p.onStep(i, s)
		}
		log.Info("playing note", "index", i, "pitch", s.Pitch, "length", s.Length)
		if s.IsRest() {
			p.tone.Silence()
			p.sleep.Sleep(p.cfg.Tempo.Resolve(melody.Eighth))
		} else {
			p.tone.Tone(s.Pitch.Hz())
			p.sleep.Sleep(p.cfg.Tempo.Resolve(s.Length))
			p.tone.Silence()
			p.sleep.Sleep(p.cfg.Gap)
		}
		played++
	}
	p.tone.Silence()
	p.finished.Add(1)
	log.Info("melody finished", "played", played)
	return played
}

// released reads the pin directly, as Run does after a melody, and clears the
// state when the button is up.
func (p *Player) released() bool {
	if !p.state.Pressed() {
		return true
	}
	if !p.pin.Get() {
		p.state.Clear()
		return true
	}
	return false
}
