package synth

import (
	"math"
	"testing"
)

func TestCurveCoefficientsFitsPoints(t *testing.T) {
	a, b, c := curveCoefficients(0, 0, 0.5, 1/1.5, 1, 1)
	for _, p := range [][2]float64{{0, 0}, {0.5, 1 / 1.5}, {1, 1}} {
		got := a + b*p[0] + c*p[0]*p[0]
		if math.Abs(got-p[1]) > 1e-12 {
			t.Errorf("curve(%v) = %v, expected %v", p[0], got, p[1])
		}
	}
}

func TestCurveCoefficientsPointDegenerate(t *testing.T) {
	// all three points identical: identity transform
	a, b, c := curveCoefficients(1, 1, 1, 1, 1, 1)
	if a != 0 || b != 1 || c != 0 {
		t.Errorf("got (%v, %v, %v), expected the identity (0, 1, 0)", a, b, c)
	}
}

func TestCurveCoefficientsSingular(t *testing.T) {
	// two distinct points sharing an x: unsolvable
	a, b, c := curveCoefficients(0, 0, 0, 1, 1, 1)
	if a != 0 || b != 0 || c != 0 {
		t.Errorf("got (%v, %v, %v), expected all zeros", a, b, c)
	}
}
