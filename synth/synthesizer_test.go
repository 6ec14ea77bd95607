package synth_test

import (
	"testing"

	"github.com/welkin-audio/welkin"
	"github.com/welkin-audio/welkin/synth"
)

func TestSynthesizerRendersNotes(t *testing.T) {
	s := synth.NewPatchSynthesizer(welkin.DefaultPatch(), 4)
	s.NoteOn(0, 60, 100)
	buffer := make(welkin.AudioBuffer, 4410) // 100 ms
	if err := s.Render(buffer); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	var max float32
	for _, frame := range buffer {
		for _, v := range frame {
			if v > max {
				max = v
			}
		}
	}
	if max == 0 {
		t.Error("rendered audio is silent after a note on")
	}
	s.NoteOff(0, 60, 0)
	tail := make(welkin.AudioBuffer, 2*welkin.DefaultSampleRate)
	if err := s.Render(tail); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := s.Voices().ActiveVoiceCount(); got != 0 {
		t.Errorf("got %v active voices after release, expected 0", got)
	}
	if last := tail[len(tail)-1]; last[0] != 0 || last[1] != 0 {
		t.Errorf("got [%v %v] at the end of the tail, expected silence", last[0], last[1])
	}
}

func TestSynthesizerRenderEmptyBuffer(t *testing.T) {
	s := synth.NewPatchSynthesizer(welkin.DefaultPatch(), 1)
	if err := s.Render(welkin.AudioBuffer{}); err == nil {
		t.Error("expected an error for an empty buffer")
	}
}

// Note events beyond the voice budget are dropped without error; the synth
// must keep rendering.
func TestSynthesizerDropsExcessNotes(t *testing.T) {
	s := synth.NewSynthesizer(synth.NewVoiceStore(1, newTestVoice))
	s.NoteOn(0, 60, 100)
	s.NoteOn(0, 61, 100) // no voice left; dropped
	s.NoteOff(0, 61, 0)  // note off for a key nobody plays; dropped
	if got := s.Voices().ActiveVoiceCount(); got != 1 {
		t.Errorf("got %v active voices, expected 1", got)
	}
	buffer := make(welkin.AudioBuffer, 128)
	if err := s.Render(buffer); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
}

func TestSynthesizerSampleRate(t *testing.T) {
	s := synth.NewPatchSynthesizer(welkin.DefaultPatch(), 2)
	if got := s.SampleRate(); got != welkin.DefaultSampleRate {
		t.Errorf("got %v, expected %v", got, welkin.DefaultSampleRate)
	}
	s.SetSampleRate(48000)
	if got := s.SampleRate(); got != 48000 {
		t.Errorf("got %v, expected 48000", got)
	}
	s.NoteOn(0, 60, 100)
	buffer := make(welkin.AudioBuffer, 128)
	if err := s.Render(buffer); err != nil {
		t.Fatalf("Render failed after sample rate change: %v", err)
	}
}
