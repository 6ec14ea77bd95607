package welkin

import "fmt"

// Waveform is the closed set of oscillator wave shapes. The debug shapes
// output a constant level and exist for testing signal routing.
type Waveform int

const (
	WaveformNone Waveform = iota
	WaveformSine
	WaveformSquare
	WaveformPulseWidth
	WaveformTriangle
	WaveformSawtooth
	WaveformNoise
	WaveformDebugZero
	WaveformDebugMax
	WaveformDebugMin
)

var waveformNames = [...]string{
	WaveformNone:       "none",
	WaveformSine:       "sine",
	WaveformSquare:     "square",
	WaveformPulseWidth: "pulse-width",
	WaveformTriangle:   "triangle",
	WaveformSawtooth:   "sawtooth",
	WaveformNoise:      "noise",
	WaveformDebugZero:  "debug-zero",
	WaveformDebugMax:   "debug-max",
	WaveformDebugMin:   "debug-min",
}

func (w Waveform) String() string {
	if w < 0 || int(w) >= len(waveformNames) {
		return fmt.Sprintf("waveform(%d)", int(w))
	}
	return waveformNames[w]
}

// ParseWaveform is the inverse of String.
func ParseWaveform(s string) (Waveform, error) {
	for i, name := range waveformNames {
		if name == s {
			return Waveform(i), nil
		}
	}
	return WaveformNone, fmt.Errorf("unknown waveform %q", s)
}

func (w Waveform) MarshalYAML() (interface{}, error) {
	return w.String(), nil
}

func (w *Waveform) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseWaveform(s)
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// LFORouting selects which voice parameter the low-frequency oscillator
// modulates.
type LFORouting int

const (
	LFORoutingNone LFORouting = iota
	LFORoutingAmplitude
	LFORoutingPitch
	LFORoutingPulseWidth
	LFORoutingFilterCutoff
)

var lfoRoutingNames = [...]string{
	LFORoutingNone:         "none",
	LFORoutingAmplitude:    "amplitude",
	LFORoutingPitch:        "pitch",
	LFORoutingPulseWidth:   "pulse-width",
	LFORoutingFilterCutoff: "filter-cutoff",
}

func (r LFORouting) String() string {
	if r < 0 || int(r) >= len(lfoRoutingNames) {
		return fmt.Sprintf("lfo-routing(%d)", int(r))
	}
	return lfoRoutingNames[r]
}

// ParseLFORouting is the inverse of String.
func ParseLFORouting(s string) (LFORouting, error) {
	for i, name := range lfoRoutingNames {
		if name == s {
			return LFORouting(i), nil
		}
	}
	return LFORoutingNone, fmt.Errorf("unknown lfo routing %q", s)
}

func (r LFORouting) MarshalYAML() (interface{}, error) {
	return r.String(), nil
}

func (r *LFORouting) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseLFORouting(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
