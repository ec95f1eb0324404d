package main

import (
	"strings"
	"testing"

	"github.com/bloopsaphone/bloops"
)

func TestPrintMIDI(t *testing.T) {
	song := &bloops.Song{
		Tempo: 60,
		Tracks: []bloops.SongTrack{
			{Notation: "4C 8 E"},
			{Notation: "2A3 E#"},
		},
	}
	var b strings.Builder
	if err := printMIDI(&b, namedSong{Name: "test.yml", Song: song}, 100); err != nil {
		t.Fatalf("printMIDI failed: %v", err)
	}
	want := `test.yml track 0: frame 0 90 3C 64
test.yml track 0: frame 100 80 3C 00
test.yml track 0: frame 150 90 40 64
test.yml track 0: frame 200 80 40 00
test.yml track 1: frame 0 91 39 64
test.yml track 1: frame 200 81 39 00
`
	if got := b.String(); got != want {
		t.Fatalf("printMIDI wrote\n%s\nwant\n%s", got, want)
	}
}
