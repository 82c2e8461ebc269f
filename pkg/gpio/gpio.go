// Package gpio abstracts the one digital input the buzzer reads.
//
// Pin is implemented by SimPin for the desktop simulator and tests, and by
// a TinyGo machine.Pin wrapper when built with the tinygo tag.
package gpio

import "errors"

// Pull selects the input bias.
type Pull uint8

const (
	PullNone Pull = iota
	PullDown
	PullUp
)

// Edge selects which transitions raise an interrupt.
type Edge uint8

const (
	EdgeNone Edge = iota
	EdgeRising
	EdgeFalling
	EdgeBoth
)

// Matches reports whether a transition between the two levels fires on e.
func (e Edge) Matches(from, to bool) bool {
	if from == to {
		return false
	}
	switch e {
	case EdgeRising:
		return to
	case EdgeFalling:
		return !to
	case EdgeBoth:
		return true
	default:
		return false
	}
}

// Config configures a pin as an input.
type Config struct {
	Pull Pull
}

// ErrNoInterrupt is returned when a pin cannot raise interrupts.
var ErrNoInterrupt = errors.New("gpio: interrupt not supported")

// Pin is a digital input line.
type Pin interface {
	// Configure sets up the pin as an input.
	Configure(Config) error
	// Get returns the instantaneous level; true is high.
	Get() bool
	// SetInterrupt installs handler for the given edge. The handler runs in
	// interrupt context and must not block. A nil handler removes it.
	SetInterrupt(e Edge, handler func()) error
}
