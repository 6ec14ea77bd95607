package synth

import "errors"

var (
	// ErrOutOfVoices is returned by a non-stealing allocator when every
	// voice is busy.
	ErrOutOfVoices = errors.New("synth: out of voices")
	// ErrNoVoiceForKey is returned by a per-note allocator when asked for a
	// key it has no voice for.
	ErrNoVoiceForKey = errors.New("synth: no voice for key")
)

// VoiceAllocator hands out voices for incoming notes and mixes the running
// ones. Implementations differ only in what happens when demand exceeds
// supply.
type VoiceAllocator interface {
	// GetVoice returns the voice that should handle an event for the given
	// key: the voice already sounding that key if there is one, otherwise a
	// free voice, otherwise whatever the policy dictates.
	GetVoice(key byte) (*Voice, error)
	// VoiceCount returns the total number of voices.
	VoiceCount() int
	// ActiveVoiceCount returns the number of voices currently sounding.
	ActiveVoiceCount() int
	// Tick advances every voice by n samples and mixes their outputs.
	Tick(n int)
	// Value returns the stereo mix computed by the latest Tick.
	Value() [2]float32
	SetSampleRate(sampleRate int)
}

// VoiceStore is the rejecting allocator: when all voices are busy, new notes
// fail with ErrOutOfVoices.
type VoiceStore struct {
	voices       []*Voice
	notesPlaying []byte
	sample       [2]float32
}

// NewVoiceStore builds an allocator with count voices from the factory.
func NewVoiceStore(count int, newVoice func() *Voice) *VoiceStore {
	vs := &VoiceStore{
		voices:       make([]*Voice, count),
		notesPlaying: make([]byte, count),
	}
	for i := range vs.voices {
		vs.voices[i] = newVoice()
	}
	return vs
}

func (vs *VoiceStore) GetVoice(key byte) (*Voice, error) {
	// A voice already playing this key always wins, so that a note-off
	// reaches the note it belongs to.
	for i, playing := range vs.notesPlaying {
		if playing == key {
			return vs.voices[i], nil
		}
	}
	for i, voice := range vs.voices {
		if !voice.IsPlaying() {
			vs.notesPlaying[i] = key
			return voice, nil
		}
	}
	return nil, ErrOutOfVoices
}

func (vs *VoiceStore) VoiceCount() int { return len(vs.voices) }

func (vs *VoiceStore) ActiveVoiceCount() int {
	n := 0
	for _, voice := range vs.voices {
		if voice.IsPlaying() {
			n++
		}
	}
	return n
}

func (vs *VoiceStore) Tick(n int) {
	for ; n > 0; n-- {
		var left, right float32
		for i, voice := range vs.voices {
			voice.Tick(1)
			frame := voice.Value()
			left += frame[0]
			right += frame[1]
			if !voice.IsPlaying() {
				vs.notesPlaying[i] = 0
			}
		}
		vs.sample = [2]float32{left, right}
	}
}

func (vs *VoiceStore) Value() [2]float32 { return vs.sample }

func (vs *VoiceStore) SetSampleRate(sampleRate int) {
	for _, voice := range vs.voices {
		voice.SetSampleRate(sampleRate)
	}
}

// StealingVoiceStore is the stealing allocator: when all voices are busy it
// reuses the first voice, letting the voice-level shutdown/replay machinery
// take care of the transition.
type StealingVoiceStore struct {
	VoiceStore
}

// NewStealingVoiceStore builds a stealing allocator with count voices.
func NewStealingVoiceStore(count int, newVoice func() *Voice) *StealingVoiceStore {
	return &StealingVoiceStore{VoiceStore: *NewVoiceStore(count, newVoice)}
}

func (vs *StealingVoiceStore) GetVoice(key byte) (*Voice, error) {
	voice, err := vs.VoiceStore.GetVoice(key)
	if err == nil {
		return voice, nil
	}
	// All busy: steal the first voice. The old key mapping is overwritten so
	// the stolen note's note-off no longer reaches it.
	vs.notesPlaying[0] = key
	return vs.voices[0], nil
}

// NoteVoiceStore dedicates a voice to each registered key, drum-machine
// style. Keys without a voice fail with ErrNoVoiceForKey.
type NoteVoiceStore struct {
	voices map[byte]*Voice
	keys   []byte // iteration order for deterministic mixing
	sample [2]float32
}

// NewNoteVoiceStore builds an empty per-note allocator.
func NewNoteVoiceStore() *NoteVoiceStore {
	return &NoteVoiceStore{voices: make(map[byte]*Voice)}
}

// AddVoiceForNote registers the voice to handle the given key, replacing any
// previous registration.
func (vs *NoteVoiceStore) AddVoiceForNote(key byte, voice *Voice) {
	if _, ok := vs.voices[key]; !ok {
		vs.keys = append(vs.keys, key)
	}
	vs.voices[key] = voice
}

func (vs *NoteVoiceStore) GetVoice(key byte) (*Voice, error) {
	if voice, ok := vs.voices[key]; ok {
		return voice, nil
	}
	return nil, ErrNoVoiceForKey
}

func (vs *NoteVoiceStore) VoiceCount() int { return len(vs.voices) }

func (vs *NoteVoiceStore) ActiveVoiceCount() int {
	n := 0
	for _, voice := range vs.voices {
		if voice.IsPlaying() {
			n++
		}
	}
	return n
}

func (vs *NoteVoiceStore) Tick(n int) {
	for ; n > 0; n-- {
		var left, right float32
		for _, key := range vs.keys {
			voice := vs.voices[key]
			voice.Tick(1)
			frame := voice.Value()
			left += frame[0]
			right += frame[1]
		}
		vs.sample = [2]float32{left, right}
	}
}

func (vs *NoteVoiceStore) Value() [2]float32 { return vs.sample }

func (vs *NoteVoiceStore) SetSampleRate(sampleRate int) {
	for _, voice := range vs.voices {
		voice.SetSampleRate(sampleRate)
	}
}
