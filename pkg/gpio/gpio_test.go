package gpio

import "testing"

func TestEdgeMatches(t *testing.T) {
	tests := []struct {
		edge     Edge
		from, to bool
		want     bool
	}{
		{EdgeRising, false, true, true},
		{EdgeRising, true, false, false},
		{EdgeRising, true, true, false},
		{EdgeFalling, true, false, true},
		{EdgeFalling, false, true, false},
		{EdgeBoth, false, true, true},
		{EdgeBoth, true, false, true},
		{EdgeNone, false, true, false},
	}
	for _, tt := range tests {
		if got := tt.edge.Matches(tt.from, tt.to); got != tt.want {
			t.Errorf("Edge(%d).Matches(%v, %v) = %v, want %v", tt.edge, tt.from, tt.to, got, tt.want)
		}
	}
}

func TestSimPinRisingInterrupt(t *testing.T) {
	p := NewSimPin(false)
	if err := p.Configure(Config{Pull: PullDown}); err != nil {
		t.Fatal(err)
	}
	if p.Config().Pull != PullDown {
		t.Errorf("Config().Pull = %v, want PullDown", p.Config().Pull)
	}

	var fired int
	var levelInHandler bool
	if err := p.SetInterrupt(EdgeRising, func() {
		fired++
		levelInHandler = p.Get()
	}); err != nil {
		t.Fatal(err)
	}

	p.Press()
	p.Press() // no transition
	p.Release()
	p.Press()

	if fired != 2 {
		t.Errorf("fired = %d, want 2", fired)
	}
	if !levelInHandler {
		t.Error("handler should observe the new level")
	}
	if p.Edges() != 2 {
		t.Errorf("Edges() = %d, want 2", p.Edges())
	}
}

func TestSimPinBounce(t *testing.T) {
	p := NewSimPin(false)
	var fired int
	_ = p.SetInterrupt(EdgeRising, func() { fired++ })

	// high, low, high, low, then final high
	p.Bounce(true, 4, 0)

	if !p.Get() {
		t.Error("pin should settle high")
	}
	if fired != 3 {
		t.Errorf("fired = %d, want 3", fired)
	}

	_ = p.SetInterrupt(EdgeRising, nil)
	p.Release()
	p.Press()
	if fired != 3 {
		t.Errorf("fired after removing handler = %d, want 3", fired)
	}
}
