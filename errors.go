package bloops

import "errors"

var (
	ErrInvalidTempo  = errors.New("tempo should be > 0")
	ErrNoTracks      = errors.New("song contains no tracks")
	ErrTooManyTracks = errors.New("song has more tracks than a composition can hold")
	ErrUnknownPreset = errors.New("unknown instrument preset")
)
