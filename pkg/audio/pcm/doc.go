// Package pcm describes raw 16-bit mono PCM streams and the chunks the buzzer
// simulator writes into them.
//
// Key types:
//   - Format: sample rate and layout of an L16 mono stream
//   - Chunk: a run of audio that can write itself to an io.Writer
//   - ToneChunk: a square wave at a given frequency and duty
//   - SilenceChunk: zero samples for a given duration
//
// Example usage:
//
//	format := pcm.L16Mono16K
//	tone := format.ToneChunk(440, 0.5, 250*time.Millisecond)
//	gap := format.SilenceChunk(10 * time.Millisecond)
//	w := pcm.ChunkWriter(file)
//	_ = w.Write(tone)
//	_ = w.Write(gap)
package pcm
