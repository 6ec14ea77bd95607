package player

import (
	"github.com/welkin-audio/welkin"
)

// Render plays the events through the synth offline and returns the full
// rendered audio: everything up to the last event plus tailFrames more, so
// release tails are not cut off.
func Render(synth welkin.Synth, events []NoteEvent, tailFrames int) (welkin.AudioBuffer, error) {
	source := NewStaticEvents(events)
	buffer := make(welkin.AudioBuffer, source.LastFrame()+tailFrames)
	if err := NewPlayer(synth).Process(buffer, source); err != nil {
		return nil, err
	}
	return buffer, nil
}
