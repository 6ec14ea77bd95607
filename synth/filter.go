package synth

// filter is the voice's state-variable low-pass filter. cutoff is a unit
// interval squared into the integrator coefficient, so the control feels
// roughly exponential; resonance goes the other way, 0 being maximally
// resonant, 1 none.
type filter struct {
	cutoff    float64
	resonance float64

	low, band float64
}

func (f *filter) setCutoff(cutoff float64) {
	if cutoff < 0 {
		cutoff = 0
	}
	if cutoff > 1 {
		cutoff = 1
	}
	f.cutoff = cutoff
}

func (f *filter) setResonance(resonance float64) {
	f.resonance = resonance
}

func (f *filter) reset() {
	f.low, f.band = 0, 0
}

func (f *filter) transform(sample float64) float64 {
	freq2 := f.cutoff * f.cutoff
	f.low += freq2 * f.band
	high := sample - f.low - f.resonance*f.band
	f.band += freq2 * high
	return f.low
}
