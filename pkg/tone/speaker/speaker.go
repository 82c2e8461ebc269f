//go:build !headless

// Package speaker plays a tone.Oscillator through the host's audio device,
// so the simulator sounds like the buzzer it stands in for.
package speaker

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/haivivi/buzzerbox/pkg/tone"
)

// Available reports whether this build can open an audio device.
const Available = true

// Speaker streams an oscillator to the default output device.
type Speaker struct {
	mu     sync.Mutex
	ctx    *oto.Context
	player *oto.Player
}

// Open creates the audio context and starts playing osc. Only one Speaker
// may exist per process.
func Open(osc *tone.Oscillator) (*Speaker, error) {
	op := &oto.NewContextOptions{
		SampleRate:   osc.Format().SampleRate(),
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   20 * time.Millisecond,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("speaker: open audio device: %w", err)
	}
	<-ready

	s := &Speaker{ctx: ctx}
	s.player = ctx.NewPlayer(osc)
	s.player.Play()
	return s, nil
}

// Close stops playback.
func (s *Speaker) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player == nil {
		return nil
	}
	err := s.player.Close()
	s.player = nil
	return err
}
