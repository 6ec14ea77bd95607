package player

import "sort"

// StaticEvents is an EventSource backed by a fixed, pre-arranged list of
// events, for offline rendering. Frames are absolute from the start of the
// piece; the source converts them to buffer-relative frames as blocks
// finish.
type StaticEvents struct {
	events     []NoteEvent
	index      int
	blockStart int
}

// NewStaticEvents builds a source from the events, sorting them by frame.
// The slice is taken over by the source.
func NewStaticEvents(events []NoteEvent) *StaticEvents {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Frame < events[j].Frame
	})
	return &StaticEvents{events: events}
}

func (s *StaticEvents) NextEvent(frame int) (NoteEvent, bool) {
	if s.index >= len(s.events) {
		return NoteEvent{}, false
	}
	event := s.events[s.index]
	s.index++
	event.Frame -= s.blockStart
	return event, true
}

func (s *StaticEvents) FinishBlock(frame int) {
	s.blockStart += frame
	// The player may have peeked one event past the block without handling
	// it; rewind so the next block sees it again.
	if s.index > 0 && s.events[s.index-1].Frame >= s.blockStart {
		s.index--
	}
}

// Len returns the total number of events.
func (s *StaticEvents) Len() int { return len(s.events) }

// LastFrame returns the absolute frame of the final event, or 0 if there are
// none.
func (s *StaticEvents) LastFrame() int {
	if len(s.events) == 0 {
		return 0
	}
	return s.events[len(s.events)-1].Frame
}
