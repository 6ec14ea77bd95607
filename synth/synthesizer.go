package synth

import (
	"errors"
	"fmt"

	"github.com/welkin-audio/welkin"
)

// Synthesizer is a polyphonic instrument: a voice allocator plus the glue
// that turns note events into voice triggers and ticks into audio frames. It
// implements welkin.Synth.
type Synthesizer struct {
	voices     VoiceAllocator
	sampleRate int
}

// NewSynthesizer builds a synthesizer on top of the given allocator.
func NewSynthesizer(voices VoiceAllocator) *Synthesizer {
	return &Synthesizer{voices: voices, sampleRate: welkin.DefaultSampleRate}
}

// NewPatchSynthesizer builds a synthesizer with voiceCount stealing voices
// all playing the given patch.
func NewPatchSynthesizer(p welkin.Patch, voiceCount int) *Synthesizer {
	return NewSynthesizer(NewStealingVoiceStore(voiceCount, func() *Voice {
		return NewVoice(p)
	}))
}

// NoteOn triggers a note. When the allocator is out of voices the note is
// dropped silently; an instrument that goes quiet for one note is better
// than one that stops the stream.
func (s *Synthesizer) NoteOn(channel int, key, velocity byte) {
	voice, err := s.voices.GetVoice(key)
	if err != nil {
		return
	}
	voice.NoteOn(key, velocity)
}

// NoteOff releases a note. Note-offs for keys no voice is sounding are
// dropped; they are routine after a steal.
func (s *Synthesizer) NoteOff(channel int, key, velocity byte) {
	voice, err := s.voices.GetVoice(key)
	if err != nil {
		return
	}
	voice.NoteOff(velocity)
}

// Tick advances the instrument by n samples without rendering.
func (s *Synthesizer) Tick(n int) {
	s.voices.Tick(n)
}

// Value returns the stereo mix computed by the latest Tick.
func (s *Synthesizer) Value() [2]float32 {
	return s.voices.Value()
}

// Voices returns the underlying allocator.
func (s *Synthesizer) Voices() VoiceAllocator {
	return s.voices
}

func (s *Synthesizer) SampleRate() int { return s.sampleRate }

func (s *Synthesizer) SetSampleRate(sampleRate int) {
	s.sampleRate = sampleRate
	s.voices.SetSampleRate(sampleRate)
}

// Render fills the buffer with the next len(buffer) frames.
func (s *Synthesizer) Render(buffer welkin.AudioBuffer) (renderError error) {
	defer func() {
		if err := recover(); err != nil {
			renderError = fmt.Errorf("render panicced: %v", err)
		}
	}()
	if len(buffer) == 0 {
		return errors.New("render buffer is empty")
	}
	for i := range buffer {
		s.voices.Tick(1)
		buffer[i] = s.voices.Value()
	}
	return nil
}
