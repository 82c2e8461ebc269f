package gpio

import (
	"sync"
	"time"
)

// SimPin is a simulated input pin. Levels are driven with Set, which invokes
// the interrupt handler synchronously on matching edges, the way a hardware
// interrupt preempts whatever the CPU was doing.
type SimPin struct {
	mu      sync.Mutex
	level   bool
	cfg     Config
	edge    Edge
	handler func()
	edges   int
}

// NewSimPin creates a simulated pin at the given initial level.
func NewSimPin(level bool) *SimPin {
	return &SimPin{level: level}
}

// Configure implements Pin. A pull-down pin that was never driven reads low.
func (p *SimPin) Configure(cfg Config) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg = cfg
	return nil
}

// Get implements Pin.
func (p *SimPin) Get() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

// SetInterrupt implements Pin.
func (p *SimPin) SetInterrupt(e Edge, handler func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if handler == nil {
		e = EdgeNone
	}
	p.edge = e
	p.handler = handler
	return nil
}

// Set drives the pin to level. The handler runs outside the pin lock so it
// may call Get.
func (p *SimPin) Set(level bool) {
	p.mu.Lock()
	old := p.level
	p.level = level
	var fire func()
	if p.edge.Matches(old, level) {
		fire = p.handler
		p.edges++
	}
	p.mu.Unlock()

	if fire != nil {
		fire()
	}
}

// Press drives the pin high.
func (p *SimPin) Press() { p.Set(true) }

// Release drives the pin low.
func (p *SimPin) Release() { p.Set(false) }

// Bounce toggles the pin n times, spacing apart, then leaves it at final.
// It models the contact chatter of a mechanical switch.
func (p *SimPin) Bounce(final bool, n int, spacing time.Duration) {
	level := final
	for i := 0; i < n; i++ {
		p.Set(level)
		level = !level
		if spacing > 0 {
			time.Sleep(spacing)
		}
	}
	p.Set(final)
}

// Edges returns how many interrupts the pin has raised.
func (p *SimPin) Edges() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.edges
}

// Config returns the last configuration applied to the pin.
func (p *SimPin) Config() Config {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg
}
