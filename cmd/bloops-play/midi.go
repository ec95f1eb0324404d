package main

import (
	"fmt"
	"io"

	"github.com/bloopsaphone/bloops/midinote"
	"github.com/bloopsaphone/bloops/notation"
)

// printMIDI lists the note on and note off messages of every track, one MIDI
// channel per track, stamped with the frame at the sample rate.
func printMIDI(w io.Writer, s namedSong, sampleRate int) error {
	for i, t := range s.Song.Tracks {
		events := midinote.Events(notation.Parse(t.Notation), uint8(i%16), sampleRate, s.Song.BPM())
		for _, e := range events {
			if _, err := fmt.Fprintf(w, "%s track %d: frame %d % X\n", s.Name, i, e.Frame, []byte(e.Message)); err != nil {
				return err
			}
		}
	}
	return nil
}
