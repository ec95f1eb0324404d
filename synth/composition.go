package synth

import (
	"math"
	"sync/atomic"

	"github.com/bloopsaphone/bloops"
	"github.com/bloopsaphone/bloops/notation"
)

// MaxTracks is the number of voices of a Composition.
const MaxTracks = bloops.MaxTracks

const (
	stateStopped int32 = iota
	statePlaying
	stateRestart // voices are rewound by the next Synth
)

// Composition plays up to MaxTracks tracks together at one tempo. Play, Stop,
// SetTempo and SetVolume may be called while another goroutine runs Synth;
// only Synth touches the voices. AddTrack must be called before the
// composition is first played.
type Composition struct {
	voices    [MaxTracks]*voice
	numTracks int
	tempo     atomic.Int32
	volume    atomic.Uint32 // float32 bits
	state     atomic.Int32
}

// NewComposition returns an empty, stopped composition. A tempo below 1 BPM
// is played as 1 BPM.
func NewComposition(tempo int, volume float32) *Composition {
	c := &Composition{}
	c.SetTempo(tempo)
	c.SetVolume(volume)
	return c
}

// New returns an empty composition with the default tempo and volume.
func New() *Composition {
	return NewComposition(bloops.DefaultTempo, bloops.DefaultVolume)
}

// AddTrack gives the track a voice. Once all MaxTracks voices are taken the
// track is ignored; NumTracks tells how many were added.
func (c *Composition) AddTrack(t *Track) {
	if t == nil || c.numTracks >= len(c.voices) {
		return
	}
	c.voices[c.numTracks] = newVoice(t)
	c.numTracks++
}

// AddTune parses the tune and adds it as a track played with params. The
// track is returned even if the composition had no room left for it.
func (c *Composition) AddTune(params bloops.Params, tune string) *Track {
	t := NewTrack(params, notation.Parse(tune))
	c.AddTrack(t)
	return t
}

func (c *Composition) NumTracks() int {
	return c.numTracks
}

// Play starts the composition from the beginning. Every voice gets back the
// instrument of its track, dropping the changes made by modifiers. The
// voices are rewound on the next call to Synth.
func (c *Composition) Play() {
	c.state.Store(stateRestart)
}

// Stop silences the composition immediately.
func (c *Composition) Stop() {
	c.state.Store(stateStopped)
}

// Done reports whether the composition is stopped, either by Stop or because
// every track has finished.
func (c *Composition) Done() bool {
	return c.state.Load() == stateStopped
}

func (c *Composition) Tempo() int {
	return int(c.tempo.Load())
}

func (c *Composition) SetTempo(bpm int) {
	c.tempo.Store(int32(min(max(bpm, 1), math.MaxInt32)))
}

func (c *Composition) Volume() float32 {
	return math.Float32frombits(c.volume.Load())
}

func (c *Composition) SetVolume(volume float32) {
	c.volume.Store(math.Float32bits(volume))
}

// Synth advances the composition by one frame and adds its output to frame.
// A stopped composition adds nothing.
func (c *Composition) Synth(sampleRate int, frame *float32) {
	switch c.state.Load() {
	case statePlaying:
	case stateRestart:
		if !c.state.CompareAndSwap(stateRestart, statePlaying) {
			return
		}
		for _, v := range c.voices[:c.numTracks] {
			v.play()
		}
	default:
		return
	}
	tempo := c.Tempo()
	volume := c.Volume()
	more := false
	for _, v := range c.voices[:c.numTracks] {
		if v.synth(sampleRate, tempo, volume, frame) {
			more = true
		}
	}
	if !more {
		c.state.CompareAndSwap(statePlaying, stateStopped)
	}
}
