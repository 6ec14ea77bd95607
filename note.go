package welkin

import "math"

// NoteA4 is the MIDI key of concert A, tuned to 440 Hz.
const (
	NoteA4      byte    = 69
	A4Hz        float64 = 440
	numNotes            = 128
	MaxVelocity byte    = 127
)

// noteFrequencies is the 12-tone equal temperament table for the 128 MIDI
// keys, built once at startup so the render path only does a table lookup.
var noteFrequencies [numNotes]float64

func init() {
	for i := range noteFrequencies {
		noteFrequencies[i] = A4Hz * math.Exp2((float64(i)-float64(NoteA4))/12)
	}
}

// NoteFrequency returns the frequency in Hz of a MIDI key in 12-tone equal
// temperament. Keys above 127 are clamped to the last entry.
func NoteFrequency(key byte) float64 {
	if int(key) >= numNotes {
		key = numNotes - 1
	}
	return noteFrequencies[key]
}
