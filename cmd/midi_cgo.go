//go:build cgo

package cmd

import (
	"github.com/welkin-audio/welkin/midiin"
)

func NewMidiContext(sampleRate int) MidiContext {
	return midiin.NewContext(sampleRate)
}
