package main

import (
	"strings"
	"testing"

	"github.com/bloopsaphone/bloops"
)

func TestPrintInfo(t *testing.T) {
	song := &bloops.Song{
		Tempo: 60,
		Tracks: []bloops.SongTrack{
			{Preset: "Bass", Notation: "C E 2G"},
			{Instrument: &bloops.Params{Type: bloops.Noise}, Notation: "8C C"},
		},
	}
	var b strings.Builder
	if err := printInfo(&b, namedSong{Name: "test.yml", Song: song}); err != nil {
		t.Fatalf("printInfo failed: %v", err)
	}
	want := `test.yml: 60 BPM, volume 0.10, 2 tracks
  0: bass, 3 notes, 4.00 s  "CE2G"
  1: inline noise, 2 notes, 1.00 s  "8CC"
`
	if got := b.String(); got != want {
		t.Fatalf("printInfo wrote\n%s\nwant\n%s", got, want)
	}
}
