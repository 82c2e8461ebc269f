package tone

import (
	"io"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Op names a PWM call.
type Op string

const (
	OpConfigure Op = "configure"
	OpFrequency Op = "frequency"
	OpDuty      Op = "duty"
)

// Call is one recorded PWM call.
type Call struct {
	Op    Op            `json:"op" msgpack:"op"`
	Value uint32        `json:"value" msgpack:"value"`
	At    time.Duration `json:"at" msgpack:"at"`
}

// Segment is a span during which the output held one state.
type Segment struct {
	Freq uint32 `json:"freq" msgpack:"freq"`
	Duty uint32 `json:"duty" msgpack:"duty"`
}

// Silent reports whether the segment produced no sound.
func (s Segment) Silent() bool {
	return s.Duty == 0
}

var _ PWM = (*Trace)(nil)

// Trace is a PWM that records every call. It is safe for concurrent use.
type Trace struct {
	mu    sync.Mutex
	start time.Time
	now   func() time.Time
	calls []Call
	freq  uint32
	duty  uint32
}

// NewTrace creates an empty trace clocked by time.Now.
func NewTrace() *Trace {
	return NewTraceClock(time.Now)
}

// NewTraceClock creates an empty trace with a custom clock.
func NewTraceClock(now func() time.Time) *Trace {
	return &Trace{now: now, start: now()}
}

func (t *Trace) record(op Op, v uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = append(t.calls, Call{Op: op, Value: v, At: t.now().Sub(t.start)})
	switch op {
	case OpFrequency, OpConfigure:
		t.freq = v
	case OpDuty:
		t.duty = v
	}
}

// Configure implements PWM.
func (t *Trace) Configure(cfg Config) error {
	t.record(OpConfigure, cfg.Frequency)
	return nil
}

// SetFrequency implements PWM.
func (t *Trace) SetFrequency(hz uint32) {
	t.record(OpFrequency, hz)
}

// SetDuty implements PWM.
func (t *Trace) SetDuty(duty uint32) {
	t.record(OpDuty, duty)
}

// Calls returns a copy of the recorded calls.
func (t *Trace) Calls() []Call {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Call, len(t.calls))
	copy(out, t.calls)
	return out
}

// Duty returns the current duty.
func (t *Trace) Duty() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.duty
}

// Frequency returns the current frequency.
func (t *Trace) Frequency() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.freq
}

// Segments folds the calls into output states. Every duty write starts a
// segment at the frequency in effect at that moment.
func (t *Trace) Segments() []Segment {
	t.mu.Lock()
	defer t.mu.Unlock()
	var (
		segs []Segment
		freq uint32
	)
	for _, c := range t.calls {
		switch c.Op {
		case OpConfigure, OpFrequency:
			freq = c.Value
		case OpDuty:
			segs = append(segs, Segment{Freq: freq, Duty: c.Value})
		}
	}
	return segs
}

// Reset drops all recorded calls and restarts the clock.
func (t *Trace) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = nil
	t.start = t.now()
}

// Encode writes the recorded calls to w as msgpack.
func (t *Trace) Encode(w io.Writer) error {
	return msgpack.NewEncoder(w).Encode(t.Calls())
}

// DecodeCalls reads calls written by Encode.
func DecodeCalls(r io.Reader) ([]Call, error) {
	var calls []Call
	if err := msgpack.NewDecoder(r).Decode(&calls); err != nil {
		return nil, err
	}
	return calls, nil
}
