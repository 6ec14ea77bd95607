package synth_test

import (
	"errors"
	"testing"

	"github.com/welkin-audio/welkin"
	"github.com/welkin-audio/welkin/synth"
)

func newTestVoice() *synth.Voice {
	return synth.NewVoice(testPatch())
}

func TestVoiceStoreAllocatesAndRejects(t *testing.T) {
	vs := synth.NewVoiceStore(2, newTestVoice)
	if got := vs.VoiceCount(); got != 2 {
		t.Fatalf("got %v voices, expected 2", got)
	}
	v1, err := vs.GetVoice(60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v1.NoteOn(60, 127)
	v2, err := vs.GetVoice(61)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v2.NoteOn(61, 127)
	if v1 == v2 {
		t.Error("different keys should get different voices")
	}
	if got := vs.ActiveVoiceCount(); got != 2 {
		t.Errorf("got %v active voices, expected 2", got)
	}
	if _, err := vs.GetVoice(62); !errors.Is(err, synth.ErrOutOfVoices) {
		t.Errorf("got %v, expected ErrOutOfVoices", err)
	}
}

func TestVoiceStoreSameKeyGetsSameVoice(t *testing.T) {
	vs := synth.NewVoiceStore(2, newTestVoice)
	v1, _ := vs.GetVoice(60)
	v1.NoteOn(60, 127)
	again, err := vs.GetVoice(60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v1 != again {
		t.Error("the voice sounding a key should handle that key's events")
	}
}

func TestVoiceStoreRecyclesReleasedVoices(t *testing.T) {
	vs := synth.NewVoiceStore(1, newTestVoice)
	v, _ := vs.GetVoice(60)
	v.NoteOn(60, 127)
	v.NoteOff(0)
	vs.Tick(welkin.DefaultSampleRate) // let the release finish
	if got := vs.ActiveVoiceCount(); got != 0 {
		t.Fatalf("got %v active voices, expected 0", got)
	}
	if _, err := vs.GetVoice(61); err != nil {
		t.Errorf("unexpected error after recycling: %v", err)
	}
}

func TestStealingVoiceStoreNeverRejects(t *testing.T) {
	vs := synth.NewStealingVoiceStore(2, newTestVoice)
	for _, key := range []byte{60, 61} {
		v, err := vs.GetVoice(key)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		v.NoteOn(key, 127)
	}
	stolen, err := vs.GetVoice(62)
	if err != nil {
		t.Fatalf("got %v, expected stealing to always succeed", err)
	}
	stolen.NoteOn(62, 127)
	if got := vs.ActiveVoiceCount(); got != 2 {
		t.Errorf("got %v active voices, expected 2", got)
	}
	vs.Tick(welkin.DefaultSampleRate / 100)
	if got, expected := stolen.Osc1().Frequency(), welkin.NoteFrequency(62); got != expected {
		t.Errorf("stolen voice frequency %v, expected %v", got, expected)
	}
	// after the steal the new key maps to the stolen voice
	again, _ := vs.GetVoice(62)
	if again != stolen {
		t.Error("stolen voice should handle the stealing key's events")
	}
}

func TestNoteVoiceStore(t *testing.T) {
	vs := synth.NewNoteVoiceStore()
	vs.AddVoiceForNote(36, newTestVoice())
	vs.AddVoiceForNote(38, newTestVoice())
	if got := vs.VoiceCount(); got != 2 {
		t.Fatalf("got %v voices, expected 2", got)
	}
	v, err := vs.GetVoice(36)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v.NoteOn(36, 127)
	if got := vs.ActiveVoiceCount(); got != 1 {
		t.Errorf("got %v active voices, expected 1", got)
	}
	if _, err := vs.GetVoice(37); !errors.Is(err, synth.ErrNoVoiceForKey) {
		t.Errorf("got %v, expected ErrNoVoiceForKey", err)
	}
}

func TestVoiceStoreMixesVoices(t *testing.T) {
	p := testPatch()
	p.Oscillator1.Waveform = welkin.WaveformDebugMax
	p.Pan = -1
	vs := synth.NewVoiceStore(2, func() *synth.Voice { return synth.NewVoice(p) })
	for _, key := range []byte{60, 61} {
		v, _ := vs.GetVoice(key)
		v.NoteOn(key, 127)
	}
	vs.Tick(100)
	frame := vs.Value()
	if frame[0] < 1.5 {
		t.Errorf("got %v, expected the two voices to sum to ~2", frame[0])
	}
	if frame[1] != 0 {
		t.Errorf("got %v on the right channel, expected 0 with full left pan", frame[1])
	}
}
