// Package player drives a synth from timed note events, splitting render
// blocks at event boundaries so every note lands on its exact frame.
package player

import (
	"fmt"

	"github.com/welkin-audio/welkin"
)

type (
	// Player renders audio from a synth, dispatching note events at their
	// exact frame positions. It is meant to be called from a single audio
	// thread; it is not safe for concurrent use.
	Player struct {
		synth welkin.Synth
	}

	// EventSource tells the player which note events happen during the
	// current buffer. Frames are relative to the start of the buffer.
	EventSource interface {
		// NextEvent consumes and returns the next event, if any. The frame
		// argument tells the source how far rendering has progressed, so
		// that live sources can adjust their clock.
		NextEvent(frame int) (event NoteEvent, ok bool)
		// FinishBlock tells the source that the current buffer is done and
		// that subsequent frames restart from zero.
		FinishBlock(frame int)
	}

	// NoteEvent triggers or releases a note at a given frame.
	NoteEvent struct {
		Frame    int
		On       bool
		Channel  int
		Key      byte
		Velocity byte
	}
)

// NewPlayer builds a player around the synth.
func NewPlayer(synth welkin.Synth) *Player {
	return &Player{synth: synth}
}

// Synth returns the synth the player renders from.
func (p *Player) Synth() welkin.Synth { return p.synth }

// Process renders audio to the given buffer, filling it completely. Events
// from the source are applied to the synth exactly at their frames: the
// buffer is rendered in chunks, each ending where the next event begins.
func (p *Player) Process(buffer welkin.AudioBuffer, source EventSource) error {
	frame := 0
	event, eventOk := source.NextEvent(frame)
	for len(buffer) > 0 {
		for eventOk && frame >= event.Frame {
			p.handleEvent(event)
			event, eventOk = source.NextEvent(frame)
		}
		framesUntilEvent := len(buffer)
		if delta := event.Frame - frame; eventOk && delta < framesUntilEvent {
			framesUntilEvent = delta
		}
		if err := p.synth.Render(buffer[:framesUntilEvent]); err != nil {
			return fmt.Errorf("synth.Render: %w", err)
		}
		buffer = buffer[framesUntilEvent:]
		frame += framesUntilEvent
	}
	source.FinishBlock(frame)
	return nil
}

func (p *Player) handleEvent(e NoteEvent) {
	if e.On {
		p.synth.NoteOn(e.Channel, e.Key, e.Velocity)
	} else {
		p.synth.NoteOff(e.Channel, e.Key, e.Velocity)
	}
}
