package synth

// DCA is the digitally controlled amplifier: it turns a mono sample into a
// stereo one, applying overall gain and a constant-power-ish pan law.
// See Pirkle, DSSPC++, p.73.
type DCA struct {
	gain float64 // 0..1
	pan  float64 // -1 full left .. 1 full right
}

// NewDCA returns a DCA at full gain, panned center.
func NewDCA() *DCA {
	return &DCA{gain: 1}
}

// Transform converts a mono sample into a stereo frame.
func (d *DCA) Transform(sample float64) [2]float32 {
	in := sample * d.gain
	leftPan := 1 - 0.25*(d.pan+1)*(d.pan+1)
	rightPan := 1 - (0.5*d.pan-0.5)*(0.5*d.pan-0.5)
	return [2]float32{float32(leftPan * in), float32(rightPan * in)}
}

func (d *DCA) Gain() float64 { return d.gain }

func (d *DCA) SetGain(gain float64) { d.gain = gain }

func (d *DCA) Pan() float64 { return d.pan }

func (d *DCA) SetPan(pan float64) { d.pan = pan }
