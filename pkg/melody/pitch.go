package melody

import "strconv"

// Pitch is a note frequency in Hz. Rest (0) is silence.
type Pitch float64

// Rest is the silent pitch.
const Rest Pitch = 0

// Equal-tempered pitches from C4 to B6.
const (
	// Octave 4
	C4  Pitch = 261.63
	Db4 Pitch = 277.18
	D4  Pitch = 293.66
	Eb4 Pitch = 311.13
	E4  Pitch = 329.63
	F4  Pitch = 349.23
	Gb4 Pitch = 369.99
	G4  Pitch = 392.00
	Ab4 Pitch = 415.30
	A4  Pitch = 440.00
	Bb4 Pitch = 466.16
	B4  Pitch = 493.88

	// Octave 5
	C5  Pitch = 523.25
	Db5 Pitch = 554.37
	D5  Pitch = 587.33
	Eb5 Pitch = 622.25
	E5  Pitch = 659.25
	F5  Pitch = 698.46
	Gb5 Pitch = 739.99
	G5  Pitch = 783.99
	Ab5 Pitch = 830.61
	A5  Pitch = 880.00
	Bb5 Pitch = 932.33
	B5  Pitch = 987.77

	// Octave 6
	C6  Pitch = 1046.50
	Db6 Pitch = 1108.73
	D6  Pitch = 1174.66
	Eb6 Pitch = 1244.51
	E6  Pitch = 1318.51
	F6  Pitch = 1396.91
	Gb6 Pitch = 1479.98
	G6  Pitch = 1567.98
	Ab6 Pitch = 1661.22
	A6  Pitch = 1760.00
	Bb6 Pitch = 1864.66
	B6  Pitch = 1975.53
)

// pitchNames is the table the device was built with, lowest pitch first.
var pitchNames = []struct {
	name  string
	pitch Pitch
}{
	{"C4", C4}, {"Db4", Db4}, {"D4", D4}, {"Eb4", Eb4}, {"E4", E4}, {"F4", F4},
	{"Gb4", Gb4}, {"G4", G4}, {"Ab4", Ab4}, {"A4", A4}, {"Bb4", Bb4}, {"B4", B4},
	{"C5", C5}, {"Db5", Db5}, {"D5", D5}, {"Eb5", Eb5}, {"E5", E5}, {"F5", F5},
	{"Gb5", Gb5}, {"G5", G5}, {"Ab5", Ab5}, {"A5", A5}, {"Bb5", Bb5}, {"B5", B5},
	{"C6", C6}, {"Db6", Db6}, {"D6", D6}, {"Eb6", Eb6}, {"E6", E6}, {"F6", F6},
	{"Gb6", Gb6}, {"G6", G6}, {"Ab6", Ab6}, {"A6", A6}, {"Bb6", Bb6}, {"B6", B6},
}

// Pitches returns the number of named pitches in the table.
func Pitches() int {
	return len(pitchNames)
}

// Hz returns the frequency as a float.
func (p Pitch) Hz() float64 {
	return float64(p)
}

// String returns the note name, "rest", or the raw frequency when the pitch
// is not in the table.
func (p Pitch) String() string {
	if p == Rest {
		return "rest"
	}
	for _, n := range pitchNames {
		if n.pitch == p {
			return n.name
		}
	}
	return strconv.FormatFloat(float64(p), 'f', 2, 64) + "Hz"
}
