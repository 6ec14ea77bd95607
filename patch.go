package welkin

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Patch describes a complete voice program: the two audio oscillators, the
// amplitude and filter envelopes, the low-pass filter, the LFO and its
// routing, and the output gain/pan. Patches are persisted as YAML and applied
// to every voice of a synthesizer at construction.
type Patch struct {
	Name string `yaml:"name,omitempty"`

	Oscillator1 OscillatorPatch `yaml:"oscillator1"`
	Oscillator2 OscillatorPatch `yaml:"oscillator2"`

	// Oscillator2Sync hard-syncs oscillator 2 to oscillator 1's cycle
	// boundaries.
	Oscillator2Sync bool `yaml:"oscillator2-sync,omitempty"`

	// OscillatorMix balances the oscillators: 1 is entirely oscillator 1,
	// 0 entirely oscillator 2.
	OscillatorMix float64 `yaml:"oscillator-mix"`

	AmpEnvelope    EnvelopePatch `yaml:"amp-envelope"`
	FilterEnvelope EnvelopePatch `yaml:"filter-envelope"`
	Filter         FilterPatch   `yaml:"filter"`
	LFO            LFOPatch      `yaml:"lfo"`

	Gain float64 `yaml:"gain"`
	Pan  float64 `yaml:"pan"` // -1 full left .. 1 full right
}

// OscillatorPatch holds the per-oscillator settings of a Patch.
type OscillatorPatch struct {
	Waveform Waveform `yaml:"waveform"`

	// PulseWidth is the duty cycle used by the pulse-width waveform.
	PulseWidth float64 `yaml:"pulse-width,omitempty"`

	// Tune is a frequency ratio applied to the played note, 1 being no
	// retuning. Useful for detuning oscillator 2 against oscillator 1.
	Tune float64 `yaml:"tune"`

	// FixedFrequency, if nonzero, makes the oscillator ignore the played
	// note and run at this frequency in Hz.
	FixedFrequency float64 `yaml:"fixed-frequency,omitempty"`
}

// EnvelopePatch holds ADSR settings. Attack, Decay and Release are unit
// intervals mapped onto 0..30 s; Sustain is a unit-interval level.
type EnvelopePatch struct {
	Attack  float64 `yaml:"attack"`
	Decay   float64 `yaml:"decay"`
	Sustain float64 `yaml:"sustain"`
	Release float64 `yaml:"release"`
}

// FilterPatch holds the voice low-pass filter settings. CutoffStart and
// CutoffEnd are unit intervals; when CutoffEnd is nonzero the filter envelope
// sweeps the cutoff between them.
type FilterPatch struct {
	CutoffStart float64 `yaml:"cutoff-start"`
	CutoffEnd   float64 `yaml:"cutoff-end"`
	Resonance   float64 `yaml:"resonance"`
}

// LFOPatch holds the low-frequency oscillator settings of a Patch.
type LFOPatch struct {
	Waveform Waveform `yaml:"waveform"`

	// Frequency in Hz; LFOs run at a fixed rate regardless of the note.
	Frequency float64 `yaml:"frequency"`

	Routing LFORouting `yaml:"routing"`
	Depth   float64    `yaml:"depth"`
}

// ParsePatch parses a YAML patch.
func ParsePatch(data []byte) (Patch, error) {
	var p Patch
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Patch{}, fmt.Errorf("the patch could not be parsed as yaml: %w", err)
	}
	return p, nil
}

// Bytes serializes the patch as YAML.
func (p Patch) Bytes() ([]byte, error) {
	data, err := yaml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("could not marshal patch: %w", err)
	}
	return data, nil
}

// DefaultPatch returns a plain two-oscillator patch with short, safe envelope
// times, suitable as a starting point and used by tests.
func DefaultPatch() Patch {
	return Patch{
		Name:          "default",
		Oscillator1:   OscillatorPatch{Waveform: WaveformSine, Tune: 1, PulseWidth: 0.5},
		Oscillator2:   OscillatorPatch{Waveform: WaveformSine, Tune: 1, PulseWidth: 0.5},
		OscillatorMix: 1,
		AmpEnvelope:   EnvelopePatch{Attack: 0.002, Decay: 0.005, Sustain: 0.8, Release: 0.01},
		Filter:        FilterPatch{CutoffStart: 1},
		LFO:           LFOPatch{Waveform: WaveformSine, Frequency: 5},
		Gain:          1,
	}
}
