package tone

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/haivivi/buzzerbox/pkg/audio/pcm"
)

var _ PWM = (*Oscillator)(nil)

// Oscillator is a software PWM channel. It renders the square wave the
// buzzer would emit as L16 mono PCM through Read, so an audio device or a
// file can stand in for the piezo.
//
// Frequency and duty live in atomics: SetFrequency and SetDuty come from the
// playback goroutine while Read runs on the audio thread.
type Oscillator struct {
	format pcm.Format
	freq   atomic.Uint32
	duty   atomic.Uint32
	res    atomic.Uint32

	sq *pcm.Square // owned by the reader
}

// NewOscillator creates a silent oscillator rendering in format.
func NewOscillator(format pcm.Format) *Oscillator {
	o := &Oscillator{
		format: format,
		sq:     pcm.NewSquare(format.SampleRate()),
	}
	o.res.Store(DefaultResolution)
	return o
}

// Configure implements PWM.
func (o *Oscillator) Configure(cfg Config) error {
	res := uint32(cfg.Resolution)
	if res == 0 {
		res = DefaultResolution
	}
	o.res.Store(res)
	o.freq.Store(cfg.Frequency)
	return nil
}

// SetFrequency implements PWM.
func (o *Oscillator) SetFrequency(hz uint32) {
	o.freq.Store(hz)
}

// SetDuty implements PWM.
func (o *Oscillator) SetDuty(duty uint32) {
	o.duty.Store(duty)
}

// Frequency returns the current frequency setting.
func (o *Oscillator) Frequency() uint32 {
	return o.freq.Load()
}

// Duty returns the current duty setting.
func (o *Oscillator) Duty() uint32 {
	return o.duty.Load()
}

// DutyFraction returns duty as a fraction of full scale.
func (o *Oscillator) DutyFraction() float64 {
	full := uint32(1) << o.res.Load()
	return float64(o.duty.Load()) / float64(full)
}

// Format returns the PCM format Read produces.
func (o *Oscillator) Format() pcm.Format {
	return o.format
}

// Read fills p with little-endian 16-bit samples. It never blocks and never
// fails; a silent channel yields zeros. A trailing odd byte is left unwritten.
func (o *Oscillator) Read(p []byte) (int, error) {
	o.sq.Set(float64(o.freq.Load()), o.DutyFraction())
	n := len(p) &^ 1
	for i := 0; i < n; i += 2 {
		binary.LittleEndian.PutUint16(p[i:], uint16(o.sq.Next()))
	}
	return n, nil
}
