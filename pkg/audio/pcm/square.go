package pcm

// Square is a phase-accumulating square wave generator. It is not safe for
// concurrent use.
type Square struct {
	rate  float64
	phase float64
	freq  float64
	duty  float64
}

// NewSquare creates a silent generator at the given sample rate.
func NewSquare(sampleRate int) *Square {
	return &Square{rate: float64(sampleRate)}
}

// Set changes frequency and duty. Phase is kept so a frequency change does
// not click.
func (s *Square) Set(freq, duty float64) {
	s.freq = freq
	s.duty = min(max(duty, 0), 1)
}

// Next returns the next sample.
func (s *Square) Next() int16 {
	if s.freq <= 0 || s.duty <= 0 {
		return 0
	}
	v := int16(-Amplitude)
	if s.phase < s.duty {
		v = Amplitude
	}
	s.phase += s.freq / s.rate
	for s.phase >= 1 {
		s.phase--
	}
	return v
}
