//go:build headless

// Package speaker plays a tone.Oscillator through the host's audio device.
// This build has no audio output.
package speaker

import (
	"errors"

	"github.com/haivivi/buzzerbox/pkg/tone"
)

// Available reports whether this build can open an audio device.
const Available = false

// ErrUnavailable is returned by Open in headless builds.
var ErrUnavailable = errors.New("speaker: built with the headless tag")

// Speaker is a placeholder in headless builds.
type Speaker struct{}

// Open always fails in headless builds.
func Open(*tone.Oscillator) (*Speaker, error) {
	return nil, ErrUnavailable
}

// Close implements io.Closer.
func (*Speaker) Close() error {
	return nil
}
