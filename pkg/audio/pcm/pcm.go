package pcm

import (
	"encoding/binary"
	"io"
	"time"
)

const (
	// L16Mono8K represents audio/L16; rate=8000; channels=1
	L16Mono8K Format = iota
	// L16Mono16K represents audio/L16; rate=16000; channels=1
	L16Mono16K
	// L16Mono44K represents audio/L16; rate=44100; channels=1
	L16Mono44K
	// L16Mono48K represents audio/L16; rate=48000; channels=1
	L16Mono48K
)

// Amplitude is the peak sample value of a full-duty square wave.
const Amplitude = 12000

// Chunk is a chunk of audio data.
type Chunk interface {
	Len() int64
	Format() Format
	WriteTo(w io.Writer) (int64, error)
}

// Format represents an L16 mono audio format.
type Format int

// SampleRate returns the sample rate in Hz for this format.
func (f Format) SampleRate() int {
	switch f {
	case L16Mono8K:
		return 8000
	case L16Mono16K:
		return 16000
	case L16Mono44K:
		return 44100
	case L16Mono48K:
		return 48000
	}
	panic("pcm: invalid audio type")
}

// Channels returns the number of audio channels for this format.
func (f Format) Channels() int {
	return 1
}

// Depth returns the bit depth for this format.
func (f Format) Depth() int {
	return 16
}

// SamplesInDuration returns the number of samples in the given duration.
func (f Format) SamplesInDuration(d time.Duration) int64 {
	return int64(time.Duration(f.SampleRate()) * d / time.Second)
}

// BytesInDuration returns the number of bytes in the given duration.
func (f Format) BytesInDuration(d time.Duration) int64 {
	return f.SamplesInDuration(d) * int64(f.Channels()) * int64(f.Depth()) / 8
}

// Duration returns the duration of the given number of bytes.
func (f Format) Duration(bytes int64) time.Duration {
	samples := bytes * 8 / int64(f.Depth())
	return time.Duration(samples) * time.Second / time.Duration(f.SampleRate())
}

// SilenceChunk returns a silence chunk of the given duration.
func (f Format) SilenceChunk(duration time.Duration) Chunk {
	return &SilenceChunk{
		Duration: duration,
		len:      f.BytesInDuration(duration),
		fmt:      f,
	}
}

// ToneChunk returns a square wave chunk. A zero frequency or duty renders
// silence.
func (f Format) ToneChunk(freq float64, duty float64, duration time.Duration) Chunk {
	return &ToneChunk{
		Freq:     freq,
		Duty:     duty,
		Duration: duration,
		fmt:      f,
	}
}

// String returns a human-readable string representation of the format.
func (f Format) String() string {
	switch f {
	case L16Mono8K:
		return "audio/L16; rate=8000; channels=1"
	case L16Mono16K:
		return "audio/L16; rate=16000; channels=1"
	case L16Mono44K:
		return "audio/L16; rate=44100; channels=1"
	case L16Mono48K:
		return "audio/L16; rate=48000; channels=1"
	}
	panic("pcm: invalid audio type")
}

// SilenceChunk is a chunk of silence.
type SilenceChunk struct {
	Duration time.Duration
	len      int64
	fmt      Format
}

// Len returns the length of the silence in bytes.
func (c *SilenceChunk) Len() int64 {
	return c.len
}

// Format returns the audio format of this chunk.
func (c *SilenceChunk) Format() Format {
	return c.fmt
}

var emptyBytes [16000]byte

// WriteTo writes silence (zero bytes) to the writer.
func (c *SilenceChunk) WriteTo(w io.Writer) (int64, error) {
	tw := c.len
	wn := int64(0)
	for tw > 0 {
		var silence []byte
		if tw > int64(len(emptyBytes)) {
			silence = emptyBytes[:]
			tw -= int64(len(silence))
		} else {
			silence = emptyBytes[:tw]
			tw = 0
		}
		n, err := w.Write(silence)
		wn += int64(n)
		if err != nil {
			return wn, err
		}
	}
	return wn, nil
}

// ToneChunk is a square wave held for a fixed duration.
type ToneChunk struct {
	Freq     float64
	Duty     float64 // 0..1, fraction of each period held high
	Duration time.Duration
	fmt      Format
}

// Len returns the length of the tone in bytes.
func (c *ToneChunk) Len() int64 {
	return c.fmt.BytesInDuration(c.Duration)
}

// Format returns the audio format of this chunk.
func (c *ToneChunk) Format() Format {
	return c.fmt
}

// WriteTo renders the square wave into w.
func (c *ToneChunk) WriteTo(w io.Writer) (int64, error) {
	if c.Freq <= 0 || c.Duty <= 0 {
		return c.fmt.SilenceChunk(c.Duration).WriteTo(w)
	}
	samples := c.fmt.SamplesInDuration(c.Duration)
	sq := NewSquare(c.fmt.SampleRate())
	sq.Set(c.Freq, c.Duty)

	buf := make([]byte, 0, 2048)
	wn := int64(0)
	for i := int64(0); i < samples; i++ {
		buf = binary.LittleEndian.AppendUint16(buf, uint16(sq.Next()))
		if len(buf) == cap(buf) || i == samples-1 {
			n, err := w.Write(buf)
			wn += int64(n)
			if err != nil {
				return wn, err
			}
			buf = buf[:0]
		}
	}
	return wn, nil
}
