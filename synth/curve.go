package synth

// curveCoefficients fits y = a + b·x + c·x² through three points. The
// envelope uses it to bend its linear ramps into convex attack and concave
// decay/release shapes.
//
// If the curve is actually just a point, the identity transform is returned,
// so a degenerate request (e.g. decaying to a 100% sustain) passes values
// through unchanged instead of pinning them to a solved-from-nothing curve.
// A singular system (distinct points sharing an x) yields all zeros, like a
// failed matrix inversion would.
func curveCoefficients(x0, y0, x1, y1, x2, y2 float64) (a, b, c float64) {
	if x0 == x1 && x1 == x2 && y0 == y1 && y1 == y2 {
		return 0, 1, 0
	}
	d0 := (x0 - x1) * (x0 - x2)
	d1 := (x1 - x0) * (x1 - x2)
	d2 := (x2 - x0) * (x2 - x1)
	if d0 == 0 || d1 == 0 || d2 == 0 {
		return 0, 0, 0
	}
	// Lagrange basis polynomials expanded into monomial coefficients.
	a = y0*x1*x2/d0 + y1*x0*x2/d1 + y2*x0*x1/d2
	b = -(y0*(x1+x2)/d0 + y1*(x0+x2)/d1 + y2*(x0+x1)/d2)
	c = y0/d0 + y1/d1 + y2/d2
	return a, b, c
}
