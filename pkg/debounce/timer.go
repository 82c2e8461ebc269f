package debounce

import (
	"time"
)

// Timer is a restartable single-shot countdown. Reset on a pending timer
// restarts the countdown; there is never more than one pending expiry.
//
// Reset is called from interrupt context: it must not block or allocate.
type Timer interface {
	Reset()
	Stop() bool
}

// TimerFactory creates a stopped timer that calls fn on expiry.
type TimerFactory func(d time.Duration, fn func()) Timer

// OneShot is a Timer backed by a time.Timer created once, up front.
type OneShot struct {
	d time.Duration
	t *time.Timer
}

// NewOneShot creates a stopped one-shot timer.
func NewOneShot(d time.Duration, fn func()) Timer {
	t := time.AfterFunc(d, fn)
	t.Stop()
	return &OneShot{d: d, t: t}
}

// Reset starts the countdown, or restarts it if already pending.
func (o *OneShot) Reset() {
	o.t.Reset(o.d)
}

// Stop cancels a pending expiry. It reports whether one was pending.
func (o *OneShot) Stop() bool {
	return o.t.Stop()
}
