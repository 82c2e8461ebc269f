//go:build tinygo

package gpio

import "machine"

// MachinePin adapts a TinyGo machine.Pin.
type MachinePin struct {
	pin machine.Pin
}

// Machine wraps a TinyGo pin.
func Machine(p machine.Pin) *MachinePin {
	return &MachinePin{pin: p}
}

// Configure implements Pin.
func (p *MachinePin) Configure(cfg Config) error {
	mode := machine.PinInput
	switch cfg.Pull {
	case PullDown:
		mode = machine.PinInputPulldown
	case PullUp:
		mode = machine.PinInputPullup
	}
	p.pin.Configure(machine.PinConfig{Mode: mode})
	return nil
}

// Get implements Pin.
func (p *MachinePin) Get() bool {
	return p.pin.Get()
}

// SetInterrupt implements Pin.
func (p *MachinePin) SetInterrupt(e Edge, handler func()) error {
	if handler == nil {
		return p.pin.SetInterrupt(0, nil)
	}
	var change machine.PinChange
	switch e {
	case EdgeRising:
		change = machine.PinRising
	case EdgeFalling:
		change = machine.PinFalling
	case EdgeBoth:
		change = machine.PinToggle
	default:
		return ErrNoInterrupt
	}
	return p.pin.SetInterrupt(change, func(machine.Pin) { handler() })
}
