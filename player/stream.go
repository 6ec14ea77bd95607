package player

import (
	"github.com/welkin-audio/welkin"
)

// Stream adapts a player and an event source into a welkin.AudioSource, so
// the audio backend can pull rendered frames on its own schedule.
type Stream struct {
	player *Player
	source EventSource
	err    error
}

// NewStream builds a pull source from the player and event source.
func NewStream(p *Player, source EventSource) *Stream {
	return &Stream{player: p, source: source}
}

// ReadAudio fills the buffer by processing one block. After an error every
// subsequent call returns the same error and no frames.
func (s *Stream) ReadAudio(buffer welkin.AudioBuffer) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	if err := s.player.Process(buffer, s.source); err != nil {
		s.err = err
		return 0, err
	}
	return len(buffer), nil
}
