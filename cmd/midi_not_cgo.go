//go:build !cgo

package cmd

func NewMidiContext(sampleRate int) MidiContext {
	// with no cgo, we cannot use MIDI, so return a null context
	return NullMidiContext{}
}
