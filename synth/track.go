package synth

import (
	"slices"

	"github.com/bloopsaphone/bloops"
)

// Track is an instrument and the notes it plays. A Track is never modified
// after NewTrack, so the same Track can be added to any number of
// compositions and read concurrently by their voices.
type Track struct {
	params bloops.Params
	notes  []bloops.Note
}

// NewTrack makes a Track from a copy of the notes.
func NewTrack(params bloops.Params, notes []bloops.Note) *Track {
	cloned := make([]bloops.Note, len(notes))
	for i, n := range notes {
		cloned[i] = n
		cloned[i].Modifiers = slices.Clone(n.Modifiers)
	}
	return &Track{params: params, notes: cloned}
}

// Params returns the instrument the track starts every play with.
func (t *Track) Params() bloops.Params {
	return t.params
}

// Notes returns a copy of the notes of the track.
func (t *Track) Notes() []bloops.Note {
	ret := make([]bloops.Note, len(t.notes))
	for i, n := range t.notes {
		ret[i] = n
		ret[i].Modifiers = slices.Clone(n.Modifiers)
	}
	return ret
}
