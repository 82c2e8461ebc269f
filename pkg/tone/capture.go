package tone

import (
	"sync"
	"time"

	"github.com/haivivi/buzzerbox/pkg/audio/pcm"
)

var _ PWM = (*Capture)(nil)

// Capture is a PWM that renders its output into a PCM stream. Each state is
// written as one chunk when the next state begins, sized by the wall-clock
// time it was held.
type Capture struct {
	w      pcm.Writer
	format pcm.Format
	now    func() time.Time

	mu      sync.Mutex
	res     uint8
	freq    uint32
	duty    uint32
	since   time.Time
	written int64
	err     error
}

// NewCapture creates a capture writing chunks of format to w.
func NewCapture(w pcm.Writer, format pcm.Format) *Capture {
	return NewCaptureClock(w, format, time.Now)
}

// NewCaptureClock creates a capture with a custom clock.
func NewCaptureClock(w pcm.Writer, format pcm.Format, now func() time.Time) *Capture {
	return &Capture{
		w:      w,
		format: format,
		now:    now,
		res:    DefaultResolution,
		since:  now(),
	}
}

// flush writes the state held since the last change. Called with mu held.
func (c *Capture) flush() {
	now := c.now()
	held := now.Sub(c.since)
	c.since = now
	if held <= 0 || c.err != nil {
		return
	}
	duty := float64(c.duty) / float64(uint32(1)<<c.res)
	chunk := c.format.ToneChunk(float64(c.freq), duty, held)
	if err := c.w.Write(chunk); err != nil {
		c.err = err
		return
	}
	c.written += chunk.Len()
}

// Configure implements PWM.
func (c *Capture) Configure(cfg Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flush()
	if cfg.Resolution != 0 {
		c.res = cfg.Resolution
	}
	c.freq = cfg.Frequency
	return c.err
}

// SetFrequency implements PWM.
func (c *Capture) SetFrequency(hz uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flush()
	c.freq = hz
}

// SetDuty implements PWM.
func (c *Capture) SetDuty(duty uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flush()
	c.duty = duty
}

// Written returns the number of PCM bytes written so far.
func (c *Capture) Written() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.written
}

// Close writes the final state and returns the first write error, if any.
func (c *Capture) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flush()
	return c.err
}
