// Package oto implements welkin.AudioContext on top of the ebitengine/oto
// library, playing rendered audio through the system audio device.
package oto

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/welkin-audio/welkin"
)

// Context wraps an oto audio context. There can be only one per process; oto
// enforces this.
type Context struct {
	context    *oto.Context
	sampleRate int
}

// NewContext opens the audio device for stereo float32 output at the given
// sample rate and waits until it is ready.
func NewContext(sampleRate int) (*Context, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	}
	context, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &Context{context: context, sampleRate: sampleRate}, nil
}

func (c *Context) SampleRate() int { return c.sampleRate }

// Play starts playing audio from the source and returns immediately; the
// device pulls frames from the source as it needs them.
func (c *Context) Play(source welkin.AudioSource) welkin.CloserWaiter {
	player := c.context.NewPlayer(&sourceReader{source: source})
	player.Play()
	return playerCloserWaiter{player}
}

func (c *Context) Close() error {
	// oto contexts cannot be closed; suspending stops the audio thread.
	if err := c.context.Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	return nil
}

type playerCloserWaiter struct {
	player *oto.Player
}

func (p playerCloserWaiter) Close() error {
	if err := p.player.Close(); err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}

// Wait blocks until the player has consumed its source and drained its
// internal buffer. oto has no completion callback, so this polls.
func (p playerCloserWaiter) Wait() {
	for p.player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
}

// sourceReader adapts a welkin.AudioSource to the io.Reader oto pulls from,
// encoding frames as interleaved little-endian float32.
type sourceReader struct {
	source  welkin.AudioSource
	scratch welkin.AudioBuffer
	err     error
}

const bytesPerFrame = 8 // 2 channels x 4 bytes

func (r *sourceReader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	frames := len(p) / bytesPerFrame
	if frames == 0 {
		return 0, nil
	}
	if cap(r.scratch) < frames {
		r.scratch = make(welkin.AudioBuffer, frames)
	}
	n, err := r.source.ReadAudio(r.scratch[:frames])
	for i, frame := range r.scratch[:n] {
		binary.LittleEndian.PutUint32(p[i*bytesPerFrame:], math.Float32bits(frame[0]))
		binary.LittleEndian.PutUint32(p[i*bytesPerFrame+4:], math.Float32bits(frame[1]))
	}
	if err != nil {
		if err == welkin.ErrBufferDrained {
			err = io.EOF
		}
		if n > 0 {
			// report the error on the next call, after the frames we got
			r.err = err
			err = nil
		}
	}
	return n * bytesPerFrame, err
}
