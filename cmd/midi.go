// Package cmd holds helpers shared by the command line binaries.
package cmd

import (
	"errors"

	"github.com/welkin-audio/welkin/player"
)

// MidiContext is the MIDI input surface the binaries need: an event source
// for the player, plus opening and closing of a hardware device.
type MidiContext interface {
	player.EventSource
	TryToOpenBy(namePrefix string, takeFirst bool) error
	HasDeviceOpen() bool
	Close()
}

// NullMidiContext is a MidiContext with no devices and no events, used when
// MIDI support is compiled out.
type NullMidiContext struct{}

func (NullMidiContext) NextEvent(frame int) (player.NoteEvent, bool) {
	return player.NoteEvent{}, false
}
func (NullMidiContext) FinishBlock(frame int) {}
func (NullMidiContext) TryToOpenBy(namePrefix string, takeFirst bool) error {
	return errors.New("MIDI support requires cgo")
}
func (NullMidiContext) HasDeviceOpen() bool { return false }
func (NullMidiContext) Close()              {}
