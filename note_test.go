package welkin_test

import (
	"math"
	"testing"

	"github.com/welkin-audio/welkin"
)

func TestNoteFrequency(t *testing.T) {
	for _, tc := range []struct {
		key      byte
		expected float64
	}{
		{welkin.NoteA4, 440},
		{welkin.NoteA4 + 12, 880},
		{welkin.NoteA4 - 12, 220},
		{60, 261.6255653005986}, // middle C
		{0, 8.175798915643707},
	} {
		if got := welkin.NoteFrequency(tc.key); math.Abs(got-tc.expected) > 1e-9 {
			t.Errorf("key %v: got %v, expected %v", tc.key, got, tc.expected)
		}
	}
	// keys past the table clamp instead of panicking
	if got := welkin.NoteFrequency(200); got != welkin.NoteFrequency(127) {
		t.Errorf("got %v, expected the highest table entry", got)
	}
}
