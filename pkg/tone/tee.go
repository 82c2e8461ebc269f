package tone

import "errors"

// Tee forwards every call to all of its channels in order.
type Tee []PWM

// Configure implements PWM. All channels are configured; errors are joined.
func (t Tee) Configure(cfg Config) error {
	var errs []error
	for _, p := range t {
		if err := p.Configure(cfg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SetFrequency implements PWM.
func (t Tee) SetFrequency(hz uint32) {
	for _, p := range t {
		p.SetFrequency(hz)
	}
}

// SetDuty implements PWM.
func (t Tee) SetDuty(duty uint32) {
	for _, p := range t {
		p.SetDuty(duty)
	}
}
