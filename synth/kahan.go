package synth

// kahanSum accumulates float64 values with Kahan compensated summation, so
// that adding a tiny per-sample delta millions of times does not drift. Both
// the oscillator phase and the envelope amplitude run through one of these.
type kahanSum struct {
	sum float64
	c   float64 // running compensation for lost low-order bits
}

// newKahanSum starts a sum at value with zero accumulated error. Re-anchoring
// an existing sum this way discards the compensation term, which is the
// point: after a deliberate jump the old error no longer applies.
func newKahanSum(value float64) kahanSum {
	return kahanSum{sum: value}
}

func (k *kahanSum) add(value float64) {
	y := value - k.c
	t := k.sum + y
	k.c = (t - k.sum) - y
	k.sum = t
}

func (k *kahanSum) value() float64 {
	return k.sum
}
