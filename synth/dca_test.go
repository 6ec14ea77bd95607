package synth_test

import (
	"math"
	"testing"

	"github.com/welkin-audio/welkin/synth"
)

func TestDCAPanLaw(t *testing.T) {
	for _, tc := range []struct {
		name        string
		pan         float64
		left, right float64
	}{
		{"center", 0, 0.75, 0.75},
		{"full left", -1, 1, 0},
		{"full right", 1, 0, 1},
	} {
		d := synth.NewDCA()
		d.SetPan(tc.pan)
		frame := d.Transform(1)
		if math.Abs(float64(frame[0])-tc.left) > 1e-6 || math.Abs(float64(frame[1])-tc.right) > 1e-6 {
			t.Errorf("%s: got [%v %v], expected [%v %v]", tc.name, frame[0], frame[1], tc.left, tc.right)
		}
	}
}

func TestDCAGain(t *testing.T) {
	d := synth.NewDCA()
	d.SetGain(0.5)
	frame := d.Transform(1)
	if math.Abs(float64(frame[0])-0.375) > 1e-6 {
		t.Errorf("got %v, expected 0.375", frame[0])
	}
	d.SetGain(0)
	frame = d.Transform(1)
	if frame[0] != 0 || frame[1] != 0 {
		t.Errorf("got [%v %v], expected silence at zero gain", frame[0], frame[1])
	}
}
