package tone

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/haivivi/buzzerbox/pkg/audio/pcm"
)

func TestConfigDuty(t *testing.T) {
	tests := []struct {
		res      uint8
		half     uint32
		maxValue uint32
	}{
		{0, 128, 255},
		{8, 128, 255},
		{10, 512, 1023},
		{1, 1, 1},
	}
	for _, tt := range tests {
		cfg := Config{Resolution: tt.res}
		if got := cfg.HalfDuty(); got != tt.half {
			t.Errorf("Resolution %d: HalfDuty() = %d, want %d", tt.res, got, tt.half)
		}
		if got := cfg.MaxDuty(); got != tt.maxValue {
			t.Errorf("Resolution %d: MaxDuty() = %d, want %d", tt.res, got, tt.maxValue)
		}
	}
}

func TestDriverTone(t *testing.T) {
	tr := NewTrace()
	d := NewDriver(tr, Config{})
	if err := d.Configure(); err != nil {
		t.Fatal(err)
	}
	if d.Config() != DefaultConfig() {
		t.Errorf("Config() = %+v, want %+v", d.Config(), DefaultConfig())
	}

	d.Tone(523.25)
	if tr.Frequency() != 523 {
		t.Errorf("Frequency() = %d, want 523", tr.Frequency())
	}
	if tr.Duty() != 128 {
		t.Errorf("Duty() = %d, want 128", tr.Duty())
	}

	d.Silence()
	if tr.Duty() != 0 {
		t.Errorf("Duty() after Silence = %d, want 0", tr.Duty())
	}
	if tr.Frequency() != 523 {
		t.Errorf("Silence changed frequency to %d", tr.Frequency())
	}

	want := []Call{
		{Op: OpConfigure, Value: DefaultFrequency},
		{Op: OpDuty, Value: 0},
		{Op: OpFrequency, Value: 523},
		{Op: OpDuty, Value: 128},
		{Op: OpDuty, Value: 0},
	}
	calls := tr.Calls()
	if len(calls) != len(want) {
		t.Fatalf("calls = %+v, want %d calls", calls, len(want))
	}
	for i := range want {
		if calls[i].Op != want[i].Op || calls[i].Value != want[i].Value {
			t.Errorf("call %d = %+v, want %+v", i, calls[i], want[i])
		}
	}
}

func TestDriverSilenceIdempotent(t *testing.T) {
	tr := NewTrace()
	d := NewDriver(tr, DefaultConfig())

	d.Tone(0)
	if tr.Duty() != 0 {
		t.Fatalf("Duty() = %d, want 0", tr.Duty())
	}
	d.Tone(0)
	if tr.Duty() != 0 {
		t.Fatalf("Duty() = %d, want 0", tr.Duty())
	}
	for _, c := range tr.Calls() {
		if c.Op != OpDuty {
			t.Errorf("silencing issued %s call", c.Op)
		}
	}
	d.Tone(-5)
	if tr.Duty() != 0 || tr.Frequency() != 0 {
		t.Errorf("negative frequency should silence, got freq %d duty %d", tr.Frequency(), tr.Duty())
	}
}

func TestTraceSegments(t *testing.T) {
	tr := NewTrace()
	d := NewDriver(tr, DefaultConfig())
	d.Tone(440)
	d.Silence()
	d.Silence()
	d.Tone(880)
	d.Silence()

	want := []Segment{
		{Freq: 440, Duty: 128},
		{Freq: 440, Duty: 0},
		{Freq: 440, Duty: 0},
		{Freq: 880, Duty: 128},
		{Freq: 880, Duty: 0},
	}
	got := tr.Segments()
	if len(got) != len(want) {
		t.Fatalf("Segments() = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("segment %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if !got[1].Silent() || got[0].Silent() {
		t.Error("Silent() mismatch")
	}

	tr.Reset()
	if len(tr.Calls()) != 0 {
		t.Error("Reset() should drop calls")
	}
}

func TestTraceEncode(t *testing.T) {
	now := time.Unix(0, 0)
	tr := NewTraceClock(func() time.Time { return now })
	tr.SetFrequency(698)
	now = now.Add(5 * time.Millisecond)
	tr.SetDuty(128)

	var buf bytes.Buffer
	if err := tr.Encode(&buf); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	calls, err := DecodeCalls(&buf)
	if err != nil {
		t.Fatalf("DecodeCalls() error: %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("decoded %d calls, want 2", len(calls))
	}
	if calls[1].Op != OpDuty || calls[1].Value != 128 || calls[1].At != 5*time.Millisecond {
		t.Errorf("calls[1] = %+v", calls[1])
	}
}

func TestOscillator(t *testing.T) {
	o := NewOscillator(pcm.L16Mono8K)
	if err := o.Configure(DefaultConfig()); err != nil {
		t.Fatal(err)
	}

	buf := make([]byte, 161)
	n, err := o.Read(buf)
	if err != nil || n != 160 {
		t.Fatalf("Read() = %d, %v; want 160, nil", n, err)
	}
	if !bytes.Equal(buf[:160], make([]byte, 160)) {
		t.Error("silent oscillator should read zeros")
	}

	o.SetFrequency(1000)
	o.SetDuty(128)
	if got := o.DutyFraction(); got != 0.5 {
		t.Errorf("DutyFraction() = %v, want 0.5", got)
	}
	if _, err := o.Read(buf[:160]); err != nil {
		t.Fatal(err)
	}
	high := 0
	for i := 0; i < 160; i += 2 {
		if int16(binary.LittleEndian.Uint16(buf[i:])) > 0 {
			high++
		}
	}
	if high != 40 {
		t.Errorf("high samples = %d, want 40", high)
	}
}

func TestCapture(t *testing.T) {
	now := time.Unix(0, 0)
	clock := func() time.Time { return now }

	var buf bytes.Buffer
	c := NewCaptureClock(pcm.ChunkWriter(&buf), pcm.L16Mono8K, clock)
	d := NewDriver(c, DefaultConfig())
	if err := d.Configure(); err != nil {
		t.Fatal(err)
	}

	d.Tone(1000)
	now = now.Add(100 * time.Millisecond)
	d.Silence()
	now = now.Add(10 * time.Millisecond)
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}

	// 110ms at 8 kHz, 16-bit
	if buf.Len() != 1760 || c.Written() != 1760 {
		t.Fatalf("captured %d bytes (Written %d), want 1760", buf.Len(), c.Written())
	}
	tail := buf.Bytes()[1600:]
	if !bytes.Equal(tail, make([]byte, 160)) {
		t.Error("silenced tail should be zeros")
	}
}

type failingPWM struct{ err error }

func (f failingPWM) Configure(Config) error { return f.err }
func (failingPWM) SetFrequency(uint32)      {}
func (failingPWM) SetDuty(uint32)           {}

func TestTee(t *testing.T) {
	a, b := NewTrace(), NewTrace()
	d := NewDriver(Tee{a, b}, DefaultConfig())
	if err := d.Configure(); err != nil {
		t.Fatal(err)
	}
	d.Tone(440)
	if a.Duty() != 128 || b.Duty() != 128 {
		t.Errorf("duty a=%d b=%d, want 128", a.Duty(), b.Duty())
	}

	boom := errors.New("boom")
	err := Tee{a, failingPWM{boom}}.Configure(DefaultConfig())
	if !errors.Is(err, boom) {
		t.Errorf("Configure() error = %v, want %v", err, boom)
	}
}
