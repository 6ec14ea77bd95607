package synth

import (
	"math"

	"github.com/welkin-audio/welkin"
)

// Oscillator generates one bipolar sample per tick for a given waveform and
// frequency. It remembers the cursor in the current waveform cycle, because
// the frequency can change over time and recalculating the position as if the
// current frequency had always been in effect causes clicks and pops. The
// cursor is a Kahan sum to keep repeated fractional additions from drifting.
type Oscillator struct {
	waveform welkin.Waveform

	// pulseWidth is the duty cycle of the pulse-width waveform.
	pulseWidth float64

	// frequency in Hz of the note being played. Any positive number.
	frequency float64

	// fixedFrequency, when set, overrides frequency entirely. Used for LFOs
	// and drones that ignore the played note.
	fixedFrequency    float64
	fixedFrequencySet bool

	// frequencyTune is a ratio applied to frequency, for pitch correction
	// and detuning at construction time.
	frequencyTune float64

	// frequencyModulation is bipolar: -1 halves the frequency and 1 doubles
	// it. Designed for LFO pitch routing.
	frequencyModulation float64

	// linearFrequencyModulation scales the frequency linearly, for FM
	// synthesis.
	linearFrequencyModulation float64

	// semi-deterministic noise state
	noiseX1, noiseX2 uint32

	sampleRate int
	ticks      int
	signal     float64

	cyclePosition kahanSum
	delta         float64
	deltaUpdated  bool

	// shouldSync is true on exactly the ticks where this oscillator started
	// a new cycle; owners use it to hard-sync other oscillators.
	shouldSync bool

	// syncPending is set by Sync() and consumed at the next tick.
	syncPending bool

	resetHandled bool
}

const (
	noiseSeed1 = 0x70f4f854
	noiseSeed2 = 0xe1e9f0a7
)

// NewOscillator returns an oscillator with the given waveform, playing A4
// until retuned.
func NewOscillator(waveform welkin.Waveform) *Oscillator {
	return &Oscillator{
		waveform:      waveform,
		pulseWidth:    0.5,
		frequency:     welkin.A4Hz,
		frequencyTune: 1,
		noiseX1:       noiseSeed1,
		noiseX2:       noiseSeed2,
		sampleRate:    welkin.DefaultSampleRate,
	}
}

// Tick advances the oscillator by n samples.
func (o *Oscillator) Tick(n int) {
	for ; n > 0; n-- {
		if !o.resetHandled {
			o.ticks = 0
			o.updateDelta()
			_, frac := math.Modf(o.delta * float64(o.ticks))
			o.cyclePosition = newKahanSum(frac)
		} else {
			o.ticks++
		}

		pos := o.calculateCyclePosition()
		o.signal = o.amplitudeForPosition(o.waveform, pos)

		// This must be at the end of the tick, because anything running
		// during the tick may look at it.
		o.resetHandled = true
	}
}

// Value returns the sample computed by the latest Tick, clamped to [-1, 1].
func (o *Oscillator) Value() float64 {
	if o.signal < -1 {
		return -1
	}
	if o.signal > 1 {
		return 1
	}
	return o.signal
}

// SetSampleRate tells the oscillator the new sample rate. The internal state
// is resynced at the start of the next tick, never mid-tick.
func (o *Oscillator) SetSampleRate(sampleRate int) {
	o.sampleRate = sampleRate
	o.resetHandled = false
}

func (o *Oscillator) SampleRate() int { return o.sampleRate }

// EffectiveFrequency returns the frequency the oscillator is actually
// running at, after the fixed override, tuning ratio and both modulation
// inputs.
func (o *Oscillator) EffectiveFrequency() float64 {
	unmodulated := o.frequency * o.frequencyTune
	if o.fixedFrequencySet {
		unmodulated = o.fixedFrequency
	}
	return unmodulated * math.Exp2(o.frequencyModulation) * (1 + o.linearFrequencyModulation)
}

func (o *Oscillator) Frequency() float64 { return o.frequency }

func (o *Oscillator) SetFrequency(frequency float64) {
	o.frequency = frequency
	o.deltaUpdated = false
}

func (o *Oscillator) SetFixedFrequency(frequency float64) {
	o.fixedFrequency = frequency
	o.fixedFrequencySet = true
	o.deltaUpdated = false
}

func (o *Oscillator) FrequencyTune() float64 { return o.frequencyTune }

func (o *Oscillator) SetFrequencyTune(tune float64) {
	o.frequencyTune = tune
	o.deltaUpdated = false
}

func (o *Oscillator) FrequencyModulation() float64 { return o.frequencyModulation }

func (o *Oscillator) SetFrequencyModulation(modulation float64) {
	o.frequencyModulation = modulation
	o.deltaUpdated = false
}

func (o *Oscillator) LinearFrequencyModulation() float64 { return o.linearFrequencyModulation }

func (o *Oscillator) SetLinearFrequencyModulation(modulation float64) {
	o.linearFrequencyModulation = modulation
	o.deltaUpdated = false
}

func (o *Oscillator) Waveform() welkin.Waveform { return o.waveform }

func (o *Oscillator) SetWaveform(waveform welkin.Waveform) { o.waveform = waveform }

func (o *Oscillator) PulseWidth() float64 { return o.pulseWidth }

func (o *Oscillator) SetPulseWidth(duty float64) { o.pulseWidth = duty }

// ShouldSync reports whether this oscillator started a new cycle during the
// latest tick. Owners of synced oscillator pairs poll it every tick.
func (o *Oscillator) ShouldSync() bool { return o.shouldSync }

// Sync requests a hard sync: the next Tick restarts the cycle from position
// zero before computing its sample.
func (o *Oscillator) Sync() { o.syncPending = true }

func (o *Oscillator) updateDelta() {
	if o.deltaUpdated {
		return
	}
	o.delta = o.EffectiveFrequency() / float64(o.sampleRate)

	// Re-anchor the compensated sum to the displayed value, so error
	// accumulated before the frequency change does not leak through it.
	o.cyclePosition = newKahanSum(o.cyclePosition.value())

	o.deltaUpdated = true
}

// cycleEpsilon catches positions that are one float rounding short of 1.0;
// comparing against exactly 1.0 made square waves flip one sample too late.
const cycleEpsilon = 0.999999999999

func (o *Oscillator) calculateCyclePosition() float64 {
	o.updateDelta()

	// Consume any Sync() since the last tick. The point of a sync is to
	// restart the cycle, so position zero is correct.
	if o.syncPending {
		o.syncPending = false
		o.cyclePosition = kahanSum{}
	}

	var next float64
	if o.resetHandled {
		o.cyclePosition.add(o.delta)
		next = o.cyclePosition.value()
	}

	if !o.resetHandled {
		// First tick after a reset; other oscillators should sync to us.
		o.shouldSync = true
	} else if next > cycleEpsilon {
		// Extreme FM can push the position past 2.0 here; the waveform
		// functions treat positions >= 1.0 as mod 1.0, so a single wrap is
		// enough.
		o.cyclePosition.add(-1.0)
		o.shouldSync = true
	} else {
		o.shouldSync = false
	}

	return o.cyclePosition.value()
}

// amplitudeForPosition computes the waveform value at a cycle position.
//
// Some of the formulas carry seemingly arbitrary phase-shift constants. They
// make every waveform start at amplitude zero, which avoids transients when a
// note starts. See Pirkle DSSPC++ p.133 for visualization.
func (o *Oscillator) amplitudeForPosition(waveform welkin.Waveform, pos float64) float64 {
	switch waveform {
	case welkin.WaveformSine:
		return math.Sin(pos * 2 * math.Pi)
	case welkin.WaveformSquare:
		return -sign(pos - 0.5)
	case welkin.WaveformPulseWidth:
		return -sign(pos - o.pulseWidth)
	case welkin.WaveformTriangle:
		return 4*math.Abs(pos-math.Floor(0.5+pos)) - 1
	case welkin.WaveformSawtooth:
		return 2 * (pos - math.Floor(0.5+pos))
	case welkin.WaveformNoise:
		// Stateful, so random access sounds different from sequential, and
		// reproducible only from the fixed initial seeds.
		// https://www.musicdsp.org/en/latest/Synthesis/216-fast-whitenoise-generator.html
		o.noiseX1 ^= o.noiseX2
		v := 2 * (float64(o.noiseX2) - float64(math.MaxUint32)/2) / float64(math.MaxUint32)
		o.noiseX2 += o.noiseX1
		return v
	case welkin.WaveformDebugMax:
		return 1
	case welkin.WaveformDebugMin:
		return -1
	default: // None, DebugZero
		return 0
	}
}

// sign never returns 0: the square and pulse waveforms must only ever emit
// -1 or +1, including at the exact flip position.
func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
