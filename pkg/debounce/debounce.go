// Package debounce filters contact bounce on the buzzer button.
//
// The interrupt handler (OnEdge) does nothing but rearm a single-shot timer.
// When the timer finally expires, the input has been quiet for the whole
// delay, and Sample reads the pin and commits the level to a ButtonState.
// Edges that arrive while the timer is pending push the expiry back instead
// of queuing a second one.
package debounce

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/haivivi/buzzerbox/pkg/gpio"
)

// DefaultDelay is how long the input must be quiet before it is sampled.
const DefaultDelay = 50 * time.Millisecond

// ButtonState is the debounced button level. It has one writer, the timer
// callback, and any number of readers.
type ButtonState struct {
	pressed atomic.Bool
}

// Pressed reports whether the button is held.
func (s *ButtonState) Pressed() bool {
	return s.pressed.Load()
}

// Set commits a level.
func (s *ButtonState) Set(pressed bool) {
	s.pressed.Store(pressed)
}

// Clear marks the button released.
func (s *ButtonState) Clear() {
	s.pressed.Store(false)
}

func (s *ButtonState) String() string {
	if s.Pressed() {
		return "pressed"
	}
	return "released"
}

// Option configures a Debouncer.
type Option func(*Debouncer)

// WithDelay overrides DefaultDelay.
func WithDelay(d time.Duration) Option {
	return func(db *Debouncer) {
		db.delay = d
	}
}

// WithTimerFactory replaces the time.AfterFunc based timer, mainly for tests.
func WithTimerFactory(f TimerFactory) Option {
	return func(db *Debouncer) {
		db.newTimer = f
	}
}

// WithLogger sets the logger used for state transitions.
func WithLogger(l *slog.Logger) Option {
	return func(db *Debouncer) {
		db.log = l
	}
}

// Debouncer is the button's debounce state machine.
type Debouncer struct {
	pin      gpio.Pin
	state    *ButtonState
	delay    time.Duration
	newTimer TimerFactory
	timer    Timer
	log      *slog.Logger

	commits atomic.Uint64
}

// New creates a debouncer sampling pin and committing to state. The timer is
// created here, once, and lives as long as the debouncer.
func New(pin gpio.Pin, state *ButtonState, opts ...Option) *Debouncer {
	db := &Debouncer{
		pin:      pin,
		state:    state,
		delay:    DefaultDelay,
		newTimer: NewOneShot,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(db)
	}
	db.timer = db.newTimer(db.delay, db.Sample)
	return db
}

// Attach configures the pin as a pulled-down input and routes its rising
// edges to OnEdge.
func (db *Debouncer) Attach() error {
	if err := db.pin.Configure(gpio.Config{Pull: gpio.PullDown}); err != nil {
		return fmt.Errorf("debounce: configure pin: %w", err)
	}
	if err := db.pin.SetInterrupt(gpio.EdgeRising, db.OnEdge); err != nil {
		return fmt.Errorf("debounce: set interrupt: %w", err)
	}
	return nil
}

// OnEdge is the interrupt handler. It only rearms the timer.
func (db *Debouncer) OnEdge() {
	db.timer.Reset()
}

// Sample is the timer callback. It reads the pin once and commits what it
// sees.
func (db *Debouncer) Sample() {
	if db.pin.Get() {
		db.state.Set(true)
		db.log.Info("button pressed")
	} else {
		db.state.Set(false)
		db.log.Info("button released")
	}
	db.commits.Add(1)
}

// Commits returns how many times Sample has committed a level.
func (db *Debouncer) Commits() uint64 {
	return db.commits.Load()
}

// State returns the state the debouncer writes.
func (db *Debouncer) State() *ButtonState {
	return db.state
}

// Delay returns the quiet time required before sampling.
func (db *Debouncer) Delay() time.Duration {
	return db.delay
}

// Stop cancels a pending expiry.
func (db *Debouncer) Stop() {
	db.timer.Stop()
}
