//go:build tinygo

package tone

import "machine"

// pwmGroup is the part of a TinyGo PWM peripheral the buzzer uses.
type pwmGroup interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	SetPeriod(period uint64) error
	Top() uint32
	Set(channel uint8, value uint32)
}

var _ PWM = (*MachinePWM)(nil)

// MachinePWM drives a buzzer pin from a TinyGo PWM peripheral. Duty values
// are given at the configured resolution and scaled to the peripheral's top.
type MachinePWM struct {
	pwm pwmGroup
	pin machine.Pin
	ch  uint8
	res uint8
	err error
}

// Machine binds a PWM peripheral to the buzzer pin.
func Machine(pwm pwmGroup, pin machine.Pin) *MachinePWM {
	return &MachinePWM{pwm: pwm, pin: pin}
}

// Configure implements PWM.
func (m *MachinePWM) Configure(cfg Config) error {
	m.res = cfg.Resolution
	if m.res == 0 {
		m.res = DefaultResolution
	}
	if err := m.pwm.Configure(machine.PWMConfig{Period: period(cfg.Frequency)}); err != nil {
		return err
	}
	ch, err := m.pwm.Channel(m.pin)
	if err != nil {
		return err
	}
	m.ch = ch
	return nil
}

// SetFrequency implements PWM. A period the peripheral cannot reach leaves
// the previous one in place; the failure is kept for Err.
func (m *MachinePWM) SetFrequency(hz uint32) {
	m.err = m.pwm.SetPeriod(period(hz))
}

// Err returns the error from the most recent SetFrequency, if any.
func (m *MachinePWM) Err() error {
	return m.err
}

// SetDuty implements PWM.
func (m *MachinePWM) SetDuty(duty uint32) {
	top := uint64(m.pwm.Top())
	m.pwm.Set(m.ch, uint32(top*uint64(duty)>>m.res))
}

// period converts a frequency to a PWM period in nanoseconds.
func period(hz uint32) uint64 {
	if hz == 0 {
		hz = DefaultFrequency
	}
	return 1e9 / uint64(hz)
}
