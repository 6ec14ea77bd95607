package welkin_test

import (
	"testing"

	"github.com/welkin-audio/welkin"
)

func TestWaveformNamesRoundTrip(t *testing.T) {
	for w := welkin.WaveformNone; w <= welkin.WaveformDebugMin; w++ {
		parsed, err := welkin.ParseWaveform(w.String())
		if err != nil {
			t.Errorf("%v: %v", w, err)
			continue
		}
		if parsed != w {
			t.Errorf("got %v, expected %v", parsed, w)
		}
	}
	if _, err := welkin.ParseWaveform("sinus"); err == nil {
		t.Error("expected an error for an unknown name")
	}
}

func TestLFORoutingNamesRoundTrip(t *testing.T) {
	for r := welkin.LFORoutingNone; r <= welkin.LFORoutingFilterCutoff; r++ {
		parsed, err := welkin.ParseLFORouting(r.String())
		if err != nil {
			t.Errorf("%v: %v", r, err)
			continue
		}
		if parsed != r {
			t.Errorf("got %v, expected %v", parsed, r)
		}
	}
}
