// Package midinote converts between MIDI note messages and notes of the
// chromatic alphabet.
package midinote

import (
	"math"
	"slices"

	"github.com/bloopsaphone/bloops"
	"gitlab.com/gomidi/midi/v2"
)

// Event is a MIDI message stamped with the frame it arrived on.
type Event struct {
	Frame   int
	Message midi.Message
}

// durations are the note lengths a transcription snaps to.
var durations = [...]int{1, 2, 4, 8, 16, 32, 64}

// ToneForKey returns the tone and the octave of a MIDI key; key 60 is C4.
func ToneForKey(key uint8) (bloops.Tone, int) {
	return bloops.Chromatic[key%12], int(key)/12 - 1
}

// KeyForTone is the inverse of ToneForKey. It returns false for tones without
// pitch and for notes outside the MIDI key range.
func KeyForTone(t bloops.Tone, octave int) (uint8, bool) {
	s := t.Semitone()
	if s < 0 {
		return 0, false
	}
	key := (octave+1)*12 + s
	if key < 0 || key > 127 {
		return 0, false
	}
	return uint8(key), true
}

// Transcribe turns the note messages of a monophonic line into notes. A note
// starting while another one sounds ends the previous one. Silence between
// notes becomes rests. Lengths are snapped to the nearest of whole, half,
// quarter... 64th notes at the given tempo. Messages other than note starts
// and ends are ignored.
func Transcribe(events []Event, sampleRate, tempo int) []bloops.Note {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b Event) int { return a.Frame - b.Frame })
	wholeNote := float64(sampleRate) * 60 / float64(max(tempo, 1)) * 4
	minFrames := int(wholeNote / 128)

	var ret []bloops.Note
	emit := func(tone bloops.Tone, octave, frames int) {
		if frames < minFrames || frames <= 0 {
			return
		}
		ret = append(ret, bloops.Note{Tone: tone, Octave: octave, Duration: snap(float64(frames) / wholeNote)})
	}

	var channel, key, velocity uint8
	sounding := false
	var current uint8
	start, cursor := 0, 0
	octave := 4
	for _, e := range sorted {
		switch {
		case e.Message.GetNoteStart(&channel, &key, &velocity):
			if sounding {
				t, o := ToneForKey(current)
				emit(t, o, e.Frame-start)
			} else {
				emit(bloops.Rest, octave, e.Frame-cursor)
			}
			sounding, current, start = true, key, e.Frame
		case e.Message.GetNoteEnd(&channel, &key):
			if !sounding || key != current {
				continue
			}
			t, o := ToneForKey(current)
			emit(t, o, e.Frame-start)
			octave = o
			sounding, cursor = false, e.Frame
		}
	}
	return ret
}

// snap returns the duration whose length, as a fraction of a whole note, is
// nearest to length on a logarithmic scale.
func snap(length float64) int {
	best, bestDist := durations[0], math.Inf(1)
	for _, d := range durations {
		dist := math.Abs(math.Log2(length * float64(d)))
		if dist < bestDist {
			best, bestDist = d, dist
		}
	}
	return best
}

// Events turns notes into note on and note off messages on the given MIDI
// channel, starting at frame 0. Rests, and notes MIDI cannot express, only
// advance the time.
func Events(notes []bloops.Note, channel uint8, sampleRate, tempo int) []Event {
	wholeNote := float64(sampleRate) * 60 / float64(max(tempo, 1)) * 4
	var ret []Event
	frame := 0
	for _, n := range notes {
		length := max(int(math.Round(wholeNote/float64(max(n.Duration, 1)))), 1)
		if key, ok := KeyForTone(n.Tone, n.Octave); ok {
			ret = append(ret,
				Event{Frame: frame, Message: midi.NoteOn(channel, key, 100)},
				Event{Frame: frame + length, Message: midi.NoteOff(channel, key)})
		}
		frame += length
	}
	return ret
}
