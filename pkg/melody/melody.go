// Package melody holds the buzzer's static tune: the pitch table, the note
// length enumeration, and the tempo-based duration resolver.
//
// A melody is a single ordered sequence of Steps, each pairing a pitch with
// its own length, so there is no index to keep in sync between two tables.
package melody

import (
	"fmt"
	"time"
)

// ========== Note Lengths ==========

// Length is a symbolic note length.
type Length int

const (
	Whole Length = iota
	Half
	Quarter
	DottedEighth
	Eighth
	Sixteenth
)

// String returns the short name of the length.
func (l Length) String() string {
	switch l {
	case Whole:
		return "whole"
	case Half:
		return "half"
	case Quarter:
		return "quarter"
	case DottedEighth:
		return "dotted_eighth"
	case Eighth:
		return "eighth"
	case Sixteenth:
		return "sixteenth"
	default:
		return fmt.Sprintf("length(%d)", int(l))
	}
}

// Beats returns the length in beats, with a quarter note as one beat.
func (l Length) Beats() float64 {
	switch l {
	case Whole:
		return 4
	case Half:
		return 2
	case DottedEighth:
		return 0.75
	case Eighth:
		return 0.5
	case Sixteenth:
		return 0.25
	default:
		return 1
	}
}

// Resolve converts a length to milliseconds given the quarter-note length in
// milliseconds. All arithmetic is integer; an unknown length resolves to a
// quarter note.
func Resolve(l Length, quarterMs int) int {
	switch l {
	case Whole:
		return quarterMs * 4
	case Half:
		return quarterMs * 2
	case Quarter:
		return quarterMs
	case DottedEighth:
		return quarterMs * 3 / 4
	case Eighth:
		return quarterMs / 2
	case Sixteenth:
		return quarterMs / 4
	default:
		return quarterMs
	}
}

// ========== Tempo ==========

// DefaultBPM is the tempo the device plays at.
const DefaultBPM = 128

// Tempo is a fixed tempo in beats per minute.
type Tempo struct {
	BPM int
}

// QuarterMillis returns the length of one quarter note in milliseconds.
func (t Tempo) QuarterMillis() int {
	if t.BPM <= 0 {
		return 0
	}
	return 60000 / t.BPM
}

// Resolve returns the play time of a note length at this tempo.
func (t Tempo) Resolve(l Length) time.Duration {
	return time.Duration(Resolve(l, t.QuarterMillis())) * time.Millisecond
}

// ========== Steps ==========

// Step is one entry of a melody.
type Step struct {
	Pitch  Pitch
	Length Length
}

// S is a shorthand constructor for Step.
func S(p Pitch, l Length) Step {
	return Step{Pitch: p, Length: l}
}

// IsRest reports whether the step is silent.
func (s Step) IsRest() bool {
	return s.Pitch == Rest
}

func (s Step) String() string {
	return s.Pitch.String() + "/" + s.Length.String()
}

// Melody is an ordered sequence of steps.
type Melody []Step

// Duration returns how long the melody takes to play at the given tempo,
// counting the gap after each sounded note. Rests always last an eighth note.
func (m Melody) Duration(t Tempo, gap time.Duration) time.Duration {
	var total time.Duration
	for _, s := range m {
		if s.IsRest() {
			total += t.Resolve(Eighth)
			continue
		}
		total += t.Resolve(s.Length) + gap
	}
	return total
}

// Notes returns the number of sounded (non-rest) steps.
func (m Melody) Notes() int {
	n := 0
	for _, s := range m {
		if !s.IsRest() {
			n++
		}
	}
	return n
}
