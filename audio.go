package welkin

import "errors"

// AudioBuffer is a buffer of stereo audio samples: [0] is left, [1] right.
// Channel values are nominally in [-1, 1] but are deliberately left
// unclamped; clipping is the output stage's job.
type AudioBuffer [][2]float32

// AudioSource is something that can produce stereo audio, e.g. a rendered
// buffer or a live synth. ReadAudio returns the number of frames written and
// io.EOF semantics: n == 0 with a non-nil error ends the stream.
type AudioSource interface {
	ReadAudio(buffer AudioBuffer) (n int, err error)
}

// AudioContext is the audio device layer. Play starts playing the source in
// the background and returns a CloserWaiter to wait for or interrupt it.
type AudioContext interface {
	Play(source AudioSource) CloserWaiter
	Close() error
}

// CloserWaiter is a handle to background playback.
type CloserWaiter interface {
	Close() error
	Wait()
}

// ErrBufferDrained is returned by buffer sources when all frames have been
// read.
var ErrBufferDrained = errors.New("audio buffer drained")

type bufferSource struct {
	buffer AudioBuffer
	pos    int
}

// Source returns an AudioSource that reads through the buffer once.
func (b AudioBuffer) Source() AudioSource {
	return &bufferSource{buffer: b}
}

func (s *bufferSource) ReadAudio(buffer AudioBuffer) (int, error) {
	n := copy(buffer, s.buffer[s.pos:])
	s.pos += n
	if n == 0 {
		return 0, ErrBufferDrained
	}
	return n, nil
}
