// Package audiocapture dumps a running console's PCM output to a .wav
// file, for offline inspection of the audio mixer's output without a
// live speaker. Grounded on the teacher's own go-audio/wav dependency,
// which the teacher repo lists but never actually calls; this package
// gives it a real caller.
package audiocapture

import (
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Capture accumulates S16 stereo frames and flushes them to a wav file
// on Close.
type Capture struct {
	f       *os.File
	enc     *wav.Encoder
	samples []int
}

// New opens path and prepares a 16-bit stereo encoder at sampleRate.
func New(path string, sampleRate int) (*Capture, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	enc := wav.NewEncoder(f, sampleRate, 16, 2, 1)
	return &Capture{f: f, enc: enc}, nil
}

// Write appends one frame's worth of interleaved S16 stereo samples.
func (c *Capture) Write(pcm []int16) error {
	if len(pcm) == 0 {
		return nil
	}
	if cap(c.samples) < len(pcm) {
		c.samples = make([]int, len(pcm))
	}
	c.samples = c.samples[:len(pcm)]
	for i, s := range pcm {
		c.samples[i] = int(s)
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: c.enc.SampleRate},
		Data:           c.samples,
		SourceBitDepth: 16,
	}
	return c.enc.Write(buf)
}

// Close flushes the wav header/trailer and closes the underlying file.
func (c *Capture) Close() error {
	if err := c.enc.Close(); err != nil {
		c.f.Close()
		return err
	}
	return c.f.Close()
}
