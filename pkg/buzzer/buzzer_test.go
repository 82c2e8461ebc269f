package buzzer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/haivivi/buzzerbox/pkg/debounce"
	"github.com/haivivi/buzzerbox/pkg/gpio"
	"github.com/haivivi/buzzerbox/pkg/melody"
	"github.com/haivivi/buzzerbox/pkg/tone"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordSleeper records requested sleeps without sleeping, and runs hook
// after each one.
type recordSleeper struct {
	mu     sync.Mutex
	sleeps []time.Duration
	hook   func(n int)
}

func (r *recordSleeper) Sleep(d time.Duration) {
	r.mu.Lock()
	r.sleeps = append(r.sleeps, d)
	n := len(r.sleeps)
	hook := r.hook
	r.mu.Unlock()
	if hook != nil {
		hook(n)
	}
}

func (r *recordSleeper) Sleeps() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.sleeps...)
}

func newTestPlayer(cfg PlayerConfig, pressed bool, pinHigh bool) (*Player, *tone.Trace, *recordSleeper, *debounce.ButtonState, *gpio.SimPin) {
	state := &debounce.ButtonState{}
	state.Set(pressed)
	pin := gpio.NewSimPin(pinHigh)
	tr := tone.NewTrace()
	sl := &recordSleeper{}
	p := NewPlayer(cfg, state, pin, tone.NewDriver(tr, tone.DefaultConfig()),
		WithSleeper(sl), WithPlayerLogger(quietLogger()))
	return p, tr, sl, state, pin
}

func expectedSegments(m melody.Melody) []tone.Segment {
	var segs []tone.Segment
	var freq uint32
	for _, s := range m {
		if s.IsRest() {
			segs = append(segs, tone.Segment{Freq: freq, Duty: 0})
			continue
		}
		freq = uint32(s.Pitch.Hz())
		segs = append(segs, tone.Segment{Freq: freq, Duty: 128}, tone.Segment{Freq: freq, Duty: 0})
	}
	return append(segs, tone.Segment{Freq: freq, Duty: 0})
}

func TestPlayDrivesEveryStep(t *testing.T) {
	var steps []int
	p, tr, sl, _, _ := newTestPlayer(DefaultPlayerConfig(), true, true)
	p.onStep = func(i int, s melody.Step) { steps = append(steps, i) }

	if n := p.Play(); n != 22 {
		t.Fatalf("Play() = %d, want 22", n)
	}
	if len(steps) != 22 {
		t.Fatalf("observed %d steps, want 22", len(steps))
	}
	for i, got := range steps {
		if got != i {
			t.Fatalf("step %d played at position %d", got, i)
		}
	}

	want := expectedSegments(melody.Default)
	got := tr.Segments()
	if len(got) != len(want) {
		t.Fatalf("got %d segments, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("segment %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if tr.Duty() != 0 {
		t.Errorf("output left at duty %d, want silent", tr.Duty())
	}

	sleeps := sl.Sleeps()
	// 21 notes sleep twice, the rest once.
	if len(sleeps) != 43 {
		t.Fatalf("got %d sleeps, want 43", len(sleeps))
	}
	wantFirst := []time.Duration{468 * time.Millisecond, DefaultGap, 468 * time.Millisecond, DefaultGap, 351 * time.Millisecond}
	for i, d := range wantFirst {
		if sleeps[i] != d {
			t.Errorf("sleep %d = %v, want %v", i, sleeps[i], d)
		}
	}
	// Sixteenth G5 at index 8 is the 9th note: sleeps[16].
	if sleeps[16] != 117*time.Millisecond {
		t.Errorf("sixteenth sleep = %v, want 117ms", sleeps[16])
	}
	// The rest at index 11 sleeps one eighth and no gap.
	if sleeps[22] != 234*time.Millisecond || sleeps[23] != 468*time.Millisecond {
		t.Errorf("rest sleeps = %v, %v; want 234ms then 468ms", sleeps[22], sleeps[23])
	}
}

func TestPlayIgnoresReleaseByDefault(t *testing.T) {
	p, tr, _, state, _ := newTestPlayer(DefaultPlayerConfig(), true, false)
	p.onStep = func(i int, s melody.Step) {
		if i == 3 {
			state.Clear()
		}
	}
	if n := p.Play(); n != 22 {
		t.Errorf("Play() = %d, want 22", n)
	}
	if tr.Duty() != 0 {
		t.Error("output should end silent")
	}
}

func TestPlayAbortOnRelease(t *testing.T) {
	cfg := DefaultPlayerConfig()
	cfg.AbortOnRelease = true
	p, tr, _, state, pin := newTestPlayer(cfg, true, true)
	p.onStep = func(i int, s melody.Step) {
		if i == 3 {
			pin.Release()
		}
	}
	if n := p.Play(); n != 4 {
		t.Errorf("Play() = %d, want 4", n)
	}
	if tr.Duty() != 0 {
		t.Error("output should end silent after abort")
	}
	if state.Pressed() {
		t.Error("state should be cleared when the pin reads low")
	}
}

func TestPlayAbortOnClearedState(t *testing.T) {
	cfg := DefaultPlayerConfig()
	cfg.AbortOnRelease = true
	p, _, _, state, _ := newTestPlayer(cfg, true, true)
	p.onStep = func(i int, s melody.Step) {
		if i == 0 {
			state.Clear()
		}
	}
	if n := p.Play(); n != 1 {
		t.Errorf("Play() = %d, want 1", n)
	}
}

func TestRunIdlePolls(t *testing.T) {
	p, tr, sl, _, _ := newTestPlayer(DefaultPlayerConfig(), false, false)
	ctx, cancel := context.WithCancel(context.Background())
	sl.hook = func(n int) {
		if n == 5 {
			cancel()
		}
	}

	err := p.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	for i, d := range sl.Sleeps() {
		if d != DefaultPollInterval {
			t.Errorf("sleep %d = %v, want %v", i, d, DefaultPollInterval)
		}
	}
	if len(tr.Calls()) != 0 {
		t.Errorf("idle task touched the output: %+v", tr.Calls())
	}
	if p.Plays() != 0 {
		t.Errorf("Plays() = %d, want 0", p.Plays())
	}
}

func TestRunClearsStateWhenPinLow(t *testing.T) {
	p, _, sl, state, _ := newTestPlayer(DefaultPlayerConfig(), true, false)
	ctx, cancel := context.WithCancel(context.Background())
	sl.hook = func(n int) {
		if n == 45 {
			cancel()
		}
	}
	_ = p.Run(ctx)

	if state.Pressed() {
		t.Error("state should be cleared once the pin reads low after playback")
	}
	if p.Plays() != 1 {
		t.Errorf("Plays() = %d, want 1", p.Plays())
	}
	sleeps := sl.Sleeps()
	if sleeps[43] != DefaultPollInterval {
		t.Errorf("sleep after melody = %v, want poll interval", sleeps[43])
	}
}

func TestRunRepeatsWhileHeld(t *testing.T) {
	p, _, sl, state, _ := newTestPlayer(DefaultPlayerConfig(), true, true)
	ctx, cancel := context.WithCancel(context.Background())
	// Two melodies of 43 sleeps, each followed by one poll sleep.
	sl.hook = func(n int) {
		if n == 88 {
			cancel()
		}
	}
	_ = p.Run(ctx)

	if !state.Pressed() {
		t.Error("state should stay pressed while the pin is high")
	}
	if p.Plays() != 2 {
		t.Errorf("Plays() = %d, want 2", p.Plays())
	}
}

func TestNewPlayerDefaults(t *testing.T) {
	p := NewPlayer(PlayerConfig{}, &debounce.ButtonState{}, gpio.NewSimPin(false), tone.NewDriver(tone.NewTrace(), tone.Config{}))
	cfg := p.Config()
	if len(cfg.Melody) != 22 || cfg.Tempo.BPM != 128 {
		t.Errorf("defaults = %d steps at %d bpm, want 22 at 128", len(cfg.Melody), cfg.Tempo.BPM)
	}
	if cfg.PollInterval != DefaultPollInterval {
		t.Errorf("PollInterval = %v, want %v", cfg.PollInterval, DefaultPollInterval)
	}
	if cfg.Gap != DefaultGap {
		t.Errorf("Gap = %v, want %v", cfg.Gap, DefaultGap)
	}
	if cfg.AbortOnRelease {
		t.Error("AbortOnRelease should default to false")
	}
}

func TestPlayZeroConfigSeparatesNotes(t *testing.T) {
	p, _, sl, _, _ := newTestPlayer(PlayerConfig{}, true, true)
	p.Play()

	sleeps := sl.Sleeps()
	if len(sleeps) < 2 {
		t.Fatalf("got %d sleeps, want at least 2", len(sleeps))
	}
	if sleeps[1] != DefaultGap {
		t.Errorf("gap after first note = %v, want %v", sleeps[1], DefaultGap)
	}
}

func TestNewDeviceRequiresPeripherals(t *testing.T) {
	if _, err := NewDevice(DeviceConfig{PWM: tone.NewTrace()}); err == nil {
		t.Error("expected error without a button pin")
	}
	if _, err := NewDevice(DeviceConfig{Button: gpio.NewSimPin(false)}); err == nil {
		t.Error("expected error without a pwm channel")
	}
}

func TestDeviceEndToEnd(t *testing.T) {
	pin := gpio.NewSimPin(false)
	tr := tone.NewTrace()

	var (
		mu          sync.Mutex
		steps       int
		firstStep   time.Time
		committedAt time.Time
		idlePolls   int
	)
	// Real-time polling and gaps, skipped note lengths. Counts the idle
	// polls begun between the press commit and the first step.
	sleeper := SleepFunc(func(d time.Duration) {
		if d > DefaultPollInterval {
			return
		}
		mu.Lock()
		if !committedAt.IsZero() && firstStep.IsZero() {
			idlePolls++
		}
		mu.Unlock()
		time.Sleep(d)
	})
	timers := func(d time.Duration, fn func()) debounce.Timer {
		return debounce.NewOneShot(d, func() {
			fn()
			mu.Lock()
			if committedAt.IsZero() {
				committedAt = time.Now()
			}
			mu.Unlock()
		})
	}

	dev, err := NewDevice(DeviceConfig{
		Button:       pin,
		PWM:          tr,
		Logger:       quietLogger(),
		Sleeper:      sleeper,
		TimerFactory: timers,
		OnStep: func(i int, s melody.Step) {
			mu.Lock()
			defer mu.Unlock()
			if i == 0 {
				firstStep = time.Now()
			}
			steps++
			if i == 5 {
				pin.Release()
			}
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := dev.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := dev.Start(ctx); err == nil {
		t.Error("second Start should fail")
	}

	pin.Bounce(true, 6, time.Millisecond)
	if dev.Pressed() {
		t.Fatal("pressed before the debounce delay elapsed")
	}

	deadline := time.Now().Add(2 * time.Second)
	for !dev.Pressed() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if !dev.Pressed() {
		t.Fatal("button never registered as pressed")
	}

	// Wait for playback to finish and the state to clear.
	deadline = time.Now().Add(5 * time.Second)
	for dev.Pressed() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if dev.Pressed() {
		t.Fatal("state was not cleared after playback")
	}

	cancel()
	select {
	case <-dev.Done():
	case <-time.After(time.Second):
		t.Fatal("playback task did not stop")
	}
	if !errors.Is(dev.Err(), context.Canceled) {
		t.Errorf("Err() = %v, want context.Canceled", dev.Err())
	}

	mu.Lock()
	defer mu.Unlock()
	if steps != 22 {
		t.Errorf("played %d steps, want 22", steps)
	}
	if idlePolls > 1 {
		t.Errorf("player idled %d polls after the commit, want at most 1", idlePolls)
	}
	// One poll interval, plus a little scheduler latency.
	if lag := firstStep.Sub(committedAt); lag > DefaultPollInterval+5*time.Millisecond {
		t.Errorf("playback started %v after the press was committed, want within %v", lag, DefaultPollInterval)
	}
	if dev.Debouncer().Commits() != 1 {
		t.Errorf("Commits() = %d, want 1", dev.Debouncer().Commits())
	}

	segs := tr.Segments()
	if len(segs) == 0 || !segs[len(segs)-1].Silent() {
		t.Error("output should end silent")
	}
	tones := 0
	for _, s := range segs {
		if !s.Silent() {
			tones++
		}
	}
	if tones != 21 {
		t.Errorf("sounded %d notes, want 21", tones)
	}
}

func TestPlayCountsFinished(t *testing.T) {
	p, _, _, _, _ := newTestPlayer(DefaultPlayerConfig(), true, true)
	p.onStep = func(i int, s melody.Step) {
		if p.Finished() != 0 {
			t.Fatalf("Finished() = %d during playback, want 0", p.Finished())
		}
	}
	p.Play()
	if p.Plays() != 1 || p.Finished() != 1 {
		t.Errorf("Plays() = %d, Finished() = %d; want 1, 1", p.Plays(), p.Finished())
	}
}
