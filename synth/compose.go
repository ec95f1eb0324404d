package synth

import (
	"fmt"

	"github.com/bloopsaphone/bloops"
)

// Compose builds a stopped composition out of a song.
func Compose(song bloops.Song) (*Composition, error) {
	if err := song.Validate(); err != nil {
		return nil, fmt.Errorf("song.Validate failed: %w", err)
	}
	c := NewComposition(song.BPM(), song.MasterVolume())
	for i, t := range song.Tracks {
		params, err := t.Params()
		if err != nil {
			return nil, fmt.Errorf("track %d: %w", i, err)
		}
		c.AddTune(params, t.Notation)
	}
	return c, nil
}

// Render runs the source for the given number of frames and returns the
// samples. If the source has a Done() bool method, rendering stops early,
// after the first buffer in which the source reports it is done.
func Render(source bloops.AudioSource, sampleRate, frames int) []float32 {
	const chunk = 1024
	done, _ := source.(interface{ Done() bool })
	ret := make([]float32, 0, frames)
	buf := make([]float32, chunk)
	for len(ret) < frames {
		n := min(chunk, frames-len(ret))
		source.Synth(sampleRate, buf[:n])
		ret = append(ret, buf[:n]...)
		if done != nil && done.Done() {
			break
		}
	}
	return ret
}
