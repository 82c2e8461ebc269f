// Package audio is the umbrella for the simulator's audio sub-packages:
//
//   - pcm: L16 mono formats, chunks and the square-wave generator behind
//     the simulated buzzer
//
// Example usage:
//
//	import "github.com/haivivi/buzzerbox/pkg/audio/pcm"
//
//	// One eighth note of A5 at half duty
//	chunk := pcm.L16Mono16K.ToneChunk(880, 0.5, 234*time.Millisecond)
package audio
