// Package tone drives a buzzer through a PWM peripheral.
//
// The Driver turns a frequency into peripheral calls: a positive frequency
// sets the oscillation frequency and a mid-scale duty, zero drops the duty to
// silence the output. Peripherals implement PWM; this package ships a
// software Oscillator, a call Trace, a PCM Capture, and a TinyGo backend.
package tone

// DefaultResolution is the duty resolution in bits.
const DefaultResolution = 8

// DefaultFrequency is the base frequency the channel is configured with
// before the first note.
const DefaultFrequency = 2000

// Config is the one-time channel and timer setup.
type Config struct {
	Resolution uint8  // duty resolution in bits
	Frequency  uint32 // base frequency in Hz
}

// DefaultConfig returns an 8-bit channel at 2 kHz.
func DefaultConfig() Config {
	return Config{
		Resolution: DefaultResolution,
		Frequency:  DefaultFrequency,
	}
}

// HalfDuty returns the mid-scale duty value for the resolution.
func (c Config) HalfDuty() uint32 {
	if c.Resolution == 0 {
		return 1 << (DefaultResolution - 1)
	}
	return 1 << (c.Resolution - 1)
}

// MaxDuty returns the full-scale duty value for the resolution.
func (c Config) MaxDuty() uint32 {
	return c.HalfDuty()*2 - 1
}

// PWM is a single PWM channel with its timer. After Configure only frequency
// and duty change. Mutation calls are assumed to succeed.
type PWM interface {
	Configure(Config) error
	SetFrequency(hz uint32)
	SetDuty(duty uint32)
}

// Driver plays tones on a PWM channel.
type Driver struct {
	pwm PWM
	cfg Config
}

// NewDriver creates a driver. The channel is not touched until Configure.
func NewDriver(pwm PWM, cfg Config) *Driver {
	if cfg.Resolution == 0 {
		cfg.Resolution = DefaultResolution
	}
	if cfg.Frequency == 0 {
		cfg.Frequency = DefaultFrequency
	}
	return &Driver{pwm: pwm, cfg: cfg}
}

// Configure sets up the channel with the driver's resolution and base
// frequency, starting silent.
func (d *Driver) Configure() error {
	if err := d.pwm.Configure(d.cfg); err != nil {
		return err
	}
	d.pwm.SetDuty(0)
	return nil
}

// Tone sounds freq Hz, or silences the output when freq is not positive.
// Silencing leaves the frequency setting alone.
func (d *Driver) Tone(freq float64) {
	if freq <= 0 {
		d.pwm.SetDuty(0)
		return
	}
	d.pwm.SetFrequency(uint32(freq))
	d.pwm.SetDuty(d.cfg.HalfDuty())
}

// Silence drops the duty to zero.
func (d *Driver) Silence() {
	d.Tone(0)
}

// Config returns the channel configuration.
func (d *Driver) Config() Config {
	return d.cfg
}
