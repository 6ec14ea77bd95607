// Package welkin contains the shared domain types of the welkin synthesis
// engine: audio buffers, the Synth interface, note/frequency conversions and
// the Patch format describing a voice program. The actual sound generation
// lives in the synth package; audio output and MIDI input adapters live in
// oto and midiin.
package welkin

// Synth renders stereo audio and reacts to note events. The render path must
// not allocate, lock, do I/O or iterate unboundedly; parameter changes are
// plain field writes that take effect on the next frame.
type Synth interface {
	// Render fills the whole buffer with stereo samples.
	Render(buffer AudioBuffer) error

	// NoteOn starts a note. A note that cannot be allocated a voice is
	// dropped silently; that is not an error.
	NoteOn(channel int, key, velocity byte)

	// NoteOff releases a note. Releasing a key with no sounding voice is a
	// no-op.
	NoteOff(channel int, key, velocity byte)

	// SetSampleRate tells the synth the sample rate of the buffers it will
	// be asked to render. Takes effect at the start of the next frame.
	SetSampleRate(sampleRate int)
}

// DefaultSampleRate is the sample rate assumed before the audio device
// reports the real one.
const DefaultSampleRate = 44100
