package synth

import (
	"github.com/welkin-audio/welkin"
)

// Voice is one oscillator+envelope+DCA chain, capable of sounding exactly
// one note at a time. Two audio oscillators (optionally hard-synced) are
// mixed, filtered, shaped by the amplitude envelope and panned to stereo. A
// per-voice LFO can modulate pitch, amplitude, pulse width or the filter
// cutoff.
//
// A voice never retriggers while sounding: a NoteOn on a busy voice latches
// the new key/velocity, force-shuts the amplitude envelope down, and replays
// the latched note once the envelope reports idle. The replay is evaluated
// once per tick, never recursively, so the worst-case tick cost stays
// bounded.
type Voice struct {
	osc1, osc2 *Oscillator
	osc2Sync   bool
	oscMix     float64 // 1 = entirely osc1, 0 = entirely osc2

	ampEnvelope    *Envelope
	filterEnvelope *Envelope

	filt              filter
	filterCutoffStart float64
	filterCutoffEnd   float64

	lfo        *Oscillator
	lfoRouting welkin.LFORouting
	lfoDepth   float64

	// base pulse width that LFO pulse-width modulation works against
	pulseWidth float64

	dca *DCA

	noteOnKey      byte
	noteOnVelocity byte
	stealPending   bool

	sample [2]float32
	ticks  int
}

// NewVoice builds a voice from a patch.
func NewVoice(p welkin.Patch) *Voice {
	v := &Voice{
		osc1:              newPatchOscillator(p.Oscillator1),
		osc2:              newPatchOscillator(p.Oscillator2),
		osc2Sync:          p.Oscillator2Sync,
		oscMix:            p.OscillatorMix,
		ampEnvelope:       NewEnvelope(p.AmpEnvelope.Attack, p.AmpEnvelope.Decay, p.AmpEnvelope.Sustain, p.AmpEnvelope.Release),
		filterEnvelope:    NewEnvelope(p.FilterEnvelope.Attack, p.FilterEnvelope.Decay, p.FilterEnvelope.Sustain, p.FilterEnvelope.Release),
		filterCutoffStart: p.Filter.CutoffStart,
		filterCutoffEnd:   p.Filter.CutoffEnd,
		lfo:               NewOscillator(p.LFO.Waveform),
		lfoRouting:        p.LFO.Routing,
		lfoDepth:          p.LFO.Depth,
		pulseWidth:        p.Oscillator1.PulseWidth,
		dca:               NewDCA(),
	}
	v.filt.setCutoff(p.Filter.CutoffStart)
	// The patch expresses resonance the intuitive way around: 0 none, 1
	// maximal. The filter coefficient is the inverse.
	v.filt.setResonance(1 - p.Filter.Resonance)
	if p.LFO.Frequency > 0 {
		v.lfo.SetFixedFrequency(p.LFO.Frequency)
	}
	v.dca.SetGain(p.Gain)
	v.dca.SetPan(p.Pan)
	return v
}

func newPatchOscillator(p welkin.OscillatorPatch) *Oscillator {
	o := NewOscillator(p.Waveform)
	if p.PulseWidth > 0 {
		o.SetPulseWidth(p.PulseWidth)
	}
	if p.Tune != 0 {
		o.SetFrequencyTune(p.Tune)
	}
	if p.FixedFrequency > 0 {
		o.SetFixedFrequency(p.FixedFrequency)
	}
	return o
}

// IsPlaying reports whether the voice is sounding. A voice stops reporting
// playing exactly when its amplitude envelope reaches idle.
func (v *Voice) IsPlaying() bool {
	return !v.ampEnvelope.IsIdle()
}

// NoteOn starts a note, or if the voice is busy, latches it and begins the
// shutdown-then-replay steal sequence.
func (v *Voice) NoteOn(key, velocity byte) {
	if v.IsPlaying() {
		v.stealPending = true
		v.noteOnKey = key
		v.noteOnVelocity = velocity
		v.ampEnvelope.TriggerShutdown()
		return
	}
	v.setFrequency(welkin.NoteFrequency(key))
	v.filt.reset()
	v.ampEnvelope.TriggerAttack()
	v.filterEnvelope.TriggerAttack()
}

// NoteOff releases the note.
func (v *Voice) NoteOff(velocity byte) {
	v.ampEnvelope.TriggerRelease()
	v.filterEnvelope.TriggerRelease()
}

// Value returns the stereo frame computed by the latest Tick.
func (v *Voice) Value() [2]float32 {
	return v.sample
}

// SetSampleRate propagates the new sample rate to every component; each one
// resyncs at the start of its next tick.
func (v *Voice) SetSampleRate(sampleRate int) {
	v.ticks = 0
	v.osc1.SetSampleRate(sampleRate)
	v.osc2.SetSampleRate(sampleRate)
	v.lfo.SetSampleRate(sampleRate)
	v.ampEnvelope.SetSampleRate(sampleRate)
	v.filterEnvelope.SetSampleRate(sampleRate)
}

// Osc1 returns the first audio oscillator, for parameter changes.
func (v *Voice) Osc1() *Oscillator { return v.osc1 }

// Osc2 returns the second audio oscillator.
func (v *Voice) Osc2() *Oscillator { return v.osc2 }

// LFO returns the low-frequency oscillator.
func (v *Voice) LFO() *Oscillator { return v.lfo }

// AmpEnvelope returns the amplitude envelope.
func (v *Voice) AmpEnvelope() *Envelope { return v.ampEnvelope }

// FilterEnvelope returns the filter cutoff envelope.
func (v *Voice) FilterEnvelope() *Envelope { return v.filterEnvelope }

// DCA returns the gain/pan stage.
func (v *Voice) DCA() *DCA { return v.dca }

func (v *Voice) SetLFORouting(routing welkin.LFORouting) { v.lfoRouting = routing }

func (v *Voice) SetLFODepth(depth float64) { v.lfoDepth = depth }

func (v *Voice) SetOscillatorMix(mix float64) { v.oscMix = mix }

func (v *Voice) SetFilterCutoff(start, end float64) {
	v.filterCutoffStart = start
	v.filterCutoffEnd = end
	v.filt.setCutoff(start)
}

// Tick advances the voice by n samples.
func (v *Voice) Tick(n int) {
	for ; n > 0; n-- {
		v.ticks++

		// The envelopes must tick before the playing check below, because
		// ticking is what determines the current idle state; the steal
		// replay also happens inside this call.
		ampEnv, filterEnv := v.tickEnvelopes()

		if !v.IsPlaying() {
			v.sample = [2]float32{}
			continue
		}

		if v.lfoRouting != welkin.LFORoutingNone {
			v.lfo.Tick(1)
		}
		lfo := v.lfo.Value()

		switch v.lfoRouting {
		case welkin.LFORoutingPitch:
			mod := lfo * v.lfoDepth
			v.osc1.SetFrequencyModulation(mod)
			v.osc2.SetFrequencyModulation(mod)
		case welkin.LFORoutingPulseWidth:
			duty := v.pulseWidth * (1 + lfo*v.lfoDepth)
			if duty < 0.01 {
				duty = 0.01
			}
			if duty > 0.99 {
				duty = 0.99
			}
			v.osc1.SetPulseWidth(duty)
			v.osc2.SetPulseWidth(duty)
		}

		v.osc1.Tick(1)
		if v.osc2Sync && v.osc1.ShouldSync() {
			v.osc2.Sync()
		}
		v.osc2.Tick(1)

		oscSum := v.osc1.Value()*v.oscMix + v.osc2.Value()*(1-v.oscMix)

		if v.filterCutoffEnd != 0 {
			cutoff := v.filterCutoffStart + (1-v.filterCutoffStart)*v.filterCutoffEnd*filterEnv
			v.filt.setCutoff(cutoff)
		} else if v.lfoRouting == welkin.LFORoutingFilterCutoff {
			v.filt.setCutoff(v.filterCutoffStart * (lfo*v.lfoDepth + 1))
		}
		filtered := v.filt.transform(oscSum)

		amp := ampEnv
		if v.lfoRouting == welkin.LFORoutingAmplitude {
			amp *= (lfo*v.lfoDepth + 1) / 2
		}

		v.sample = v.dca.Transform(filtered * amp)
	}
}

// tickEnvelopes advances both envelopes one sample and returns their values.
// If the amplitude envelope just reached idle and a steal is pending, the
// latched note is replayed here, once.
func (v *Voice) tickEnvelopes() (amp, filt float64) {
	if !v.IsPlaying() {
		return 0, 0
	}
	v.ampEnvelope.Tick(1)
	v.filterEnvelope.Tick(1)
	if v.IsPlaying() {
		return v.ampEnvelope.Value(), v.filterEnvelope.Value()
	}
	if v.stealPending {
		v.stealPending = false
		v.NoteOn(v.noteOnKey, v.noteOnVelocity)
	}
	return 0, 0
}

func (v *Voice) setFrequency(hz float64) {
	// Safe on a fixed-frequency oscillator: the override is stored
	// separately and takes precedence.
	v.osc1.SetFrequency(hz)
	v.osc2.SetFrequency(hz)
}
