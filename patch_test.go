package welkin_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/welkin-audio/welkin"
)

func TestPatchYamlRoundTrip(t *testing.T) {
	patch := welkin.DefaultPatch()
	patch.Oscillator2 = welkin.OscillatorPatch{Waveform: welkin.WaveformSawtooth, Tune: 0.995, PulseWidth: 0.3}
	patch.Oscillator2Sync = true
	patch.LFO = welkin.LFOPatch{Waveform: welkin.WaveformTriangle, Frequency: 6.5, Routing: welkin.LFORoutingPitch, Depth: 0.1}
	patch.Filter = welkin.FilterPatch{CutoffStart: 0.3, CutoffEnd: 0.9, Resonance: 0.5}
	data, err := patch.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	parsed, err := welkin.ParsePatch(data)
	if err != nil {
		t.Fatalf("ParsePatch failed: %v", err)
	}
	if !reflect.DeepEqual(patch, parsed) {
		t.Errorf("round trip mismatch:\ngot      %+v\nexpected %+v", parsed, patch)
	}
}

func TestPatchYamlIsHumanReadable(t *testing.T) {
	data, err := welkin.DefaultPatch().Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	for _, want := range []string{"waveform: sine", "sustain: 0.8", "routing: none"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("serialized patch does not contain %q:\n%s", want, data)
		}
	}
}

func TestParsePatchRejectsGarbage(t *testing.T) {
	if _, err := welkin.ParsePatch([]byte("\tnot yaml")); err == nil {
		t.Error("expected an error for malformed yaml")
	}
	if _, err := welkin.ParsePatch([]byte("oscillator1:\n  waveform: sawsquare\n")); err == nil {
		t.Error("expected an error for an unknown waveform")
	}
}
