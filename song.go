package bloops

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

type (
	// Song is the file representation of a composition: a tempo, a master
	// volume and one or more tracks, each pairing an instrument with a tune
	// written in the notation. Zero Tempo and Volume mean the defaults.
	Song struct {
		Tempo  int     `yaml:",omitempty"`
		Volume float32 `yaml:",omitempty"`
		Tracks []SongTrack
	}

	// SongTrack names its instrument either by a built-in preset or by giving
	// the Params inline; the inline Params win if both are present. With
	// neither, DefaultParams is used.
	SongTrack struct {
		Preset     string  `yaml:",omitempty"`
		Instrument *Params `yaml:",omitempty"`
		Notation   string
	}
)

const (
	// MaxTracks is the number of voices in a composition; tracks added beyond
	// it are dropped.
	MaxTracks = 64

	DefaultTempo  = 120
	DefaultVolume = 0.10
)

// ReadSong decodes a song from JSON or YAML.
func ReadSong(data []byte) (Song, error) {
	var song Song
	if errJSON := json.Unmarshal(data, &song); errJSON != nil {
		song = Song{}
		if errYaml := yaml.Unmarshal(data, &song); errYaml != nil {
			return Song{}, fmt.Errorf("the song could not be parsed as .json (%v) or .yml (%w)", errJSON, errYaml)
		}
	}
	return song, nil
}

// Validate checks that the song can be turned into a composition: tempo is
// not negative, there are between 1 and MaxTracks tracks and every preset
// exists.
func (s *Song) Validate() error {
	if s.Tempo < 0 {
		return ErrInvalidTempo
	}
	if len(s.Tracks) == 0 {
		return ErrNoTracks
	}
	if len(s.Tracks) > MaxTracks {
		return ErrTooManyTracks
	}
	for i, t := range s.Tracks {
		if _, err := t.Params(); err != nil {
			return fmt.Errorf("track %d: %w", i, err)
		}
	}
	return nil
}

// BPM returns the tempo of the song, DefaultTempo if not set.
func (s *Song) BPM() int {
	if s.Tempo > 0 {
		return s.Tempo
	}
	return DefaultTempo
}

// MasterVolume returns the volume of the song, DefaultVolume if not set.
func (s *Song) MasterVolume() float32 {
	if s.Volume > 0 {
		return s.Volume
	}
	return DefaultVolume
}

// Params resolves the instrument of the track.
func (t SongTrack) Params() (Params, error) {
	if t.Instrument != nil {
		return *t.Instrument, nil
	}
	if t.Preset == "" {
		return DefaultParams(), nil
	}
	p, ok := Preset(t.Preset)
	if !ok {
		return Params{}, fmt.Errorf("%w: %q", ErrUnknownPreset, t.Preset)
	}
	return p, nil
}
