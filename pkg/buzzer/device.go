package buzzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/haivivi/buzzerbox/pkg/debounce"
	"github.com/haivivi/buzzerbox/pkg/gpio"
	"github.com/haivivi/buzzerbox/pkg/tone"
)

// DeviceConfig holds the peripherals and constants of one buzzer device.
type DeviceConfig struct {
	Button gpio.Pin
	PWM    tone.PWM

	Tone          tone.Config
	DebounceDelay time.Duration
	Player        PlayerConfig

	Logger       *slog.Logger
	TimerFactory debounce.TimerFactory
	Sleeper      Sleeper
	OnStep       StepFunc
}

// Device is the single context object created at startup and shared by the
// interrupt side and the playback task.
type Device struct {
	state     *debounce.ButtonState
	debouncer *debounce.Debouncer
	driver    *tone.Driver
	player    *Player
	log       *slog.Logger

	mu      sync.Mutex
	started bool
	done    chan struct{}
	err     error
}

// NewDevice builds the device. Nothing touches the hardware until Start.
func NewDevice(cfg DeviceConfig) (*Device, error) {
	if cfg.Button == nil {
		return nil, errors.New("buzzer: button pin is required")
	}
	if cfg.PWM == nil {
		return nil, errors.New("buzzer: pwm channel is required")
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	state := &debounce.ButtonState{}
	dbOpts := []debounce.Option{debounce.WithLogger(log)}
	if cfg.DebounceDelay > 0 {
		dbOpts = append(dbOpts, debounce.WithDelay(cfg.DebounceDelay))
	}
	if cfg.TimerFactory != nil {
		dbOpts = append(dbOpts, debounce.WithTimerFactory(cfg.TimerFactory))
	}

	driver := tone.NewDriver(cfg.PWM, cfg.Tone)

	plOpts := []PlayerOption{WithPlayerLogger(log)}
	if cfg.Sleeper != nil {
		plOpts = append(plOpts, WithSleeper(cfg.Sleeper))
	}
	if cfg.OnStep != nil {
		plOpts = append(plOpts, OnStep(cfg.OnStep))
	}

	return &Device{
		state:     state,
		debouncer: debounce.New(cfg.Button, state, dbOpts...),
		driver:    driver,
		player:    NewPlayer(cfg.Player, state, cfg.Button, driver, plOpts...),
		log:       log,
		done:      make(chan struct{}),
	}, nil
}

// Start configures the PWM channel and the button interrupt, then launches
// the playback task. It may be called once.
func (d *Device) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return errors.New("buzzer: device already started")
	}

	if err := d.driver.Configure(); err != nil {
		return fmt.Errorf("buzzer: configure pwm: %w", err)
	}
	if err := d.debouncer.Attach(); err != nil {
		return fmt.Errorf("buzzer: attach button: %w", err)
	}
	d.started = true

	go func() {
		defer close(d.done)
		err := d.player.Run(ctx)
		d.mu.Lock()
		d.err = err
		d.mu.Unlock()
	}()

	cfg := d.driver.Config()
	d.log.Info("initialization complete",
		"pwm_resolution", cfg.Resolution,
		"pwm_frequency", cfg.Frequency,
		"debounce", d.debouncer.Delay(),
		"bpm", d.player.Config().Tempo.BPM)
	return nil
}

// Done is closed when the playback task has returned.
func (d *Device) Done() <-chan struct{} {
	return d.done
}

// Err returns why the playback task stopped, once Done is closed.
func (d *Device) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// Pressed reports the debounced button state.
func (d *Device) Pressed() bool {
	return d.state.Pressed()
}

// State returns the shared button state.
func (d *Device) State() *debounce.ButtonState {
	return d.state
}

// Debouncer returns the button's debounce state machine.
func (d *Device) Debouncer() *debounce.Debouncer {
	return d.debouncer
}

// Player returns the playback task.
func (d *Device) Player() *Player {
	return d.player
}
