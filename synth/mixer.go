package synth

import (
	"slices"
	"sync/atomic"
)

// MaxChannels is the number of compositions a Mixer plays at once.
const MaxChannels = 64

type (
	// Mixer sums the output of the compositions playing in its channels. It
	// implements bloops.AudioSource. Play and Stop may be called from a
	// control goroutine while the audio goroutine calls Synth: they only swap
	// channel pointers and composition states, and the voices of a restarted
	// composition are rewound by Synth itself.
	Mixer struct {
		channels [MaxChannels]atomic.Pointer[Composition]
	}

	// Handle refers to a composition admitted to a Mixer channel.
	Handle struct {
		channel int
		c       *Composition
	}
)

func NewMixer() *Mixer {
	return &Mixer{}
}

// Play starts the composition and puts it in a free channel: one that is
// empty or holds a composition that is done. It returns false if all the
// channels are busy. Playing a composition the mixer is still playing
// returns its current handle without restarting it.
func (m *Mixer) Play(c *Composition) (Handle, bool) {
	for i := range m.channels {
		if m.channels[i].Load() == c {
			if !c.Done() {
				return Handle{channel: i, c: c}, true
			}
			m.channels[i].CompareAndSwap(c, nil)
		}
	}
	c.Play()
	for i := range m.channels {
		old := m.channels[i].Load()
		if old != nil && !old.Done() {
			continue
		}
		if m.channels[i].CompareAndSwap(old, c) {
			return Handle{channel: i, c: c}, true
		}
	}
	c.Stop()
	return Handle{}, false
}

// Stop stops the composition of the handle and frees its channel. It
// returns false if the channel has since been given to another composition,
// in which case nothing is stopped.
func (m *Mixer) Stop(h Handle) bool {
	if h.c == nil || m.channels[h.channel].Load() != h.c {
		return false
	}
	h.c.Stop()
	m.channels[h.channel].CompareAndSwap(h.c, nil)
	return true
}

// Done reports whether no channel is playing.
func (m *Mixer) Done() bool {
	for i := range m.channels {
		if c := m.channels[i].Load(); c != nil && !c.Done() {
			return false
		}
	}
	return true
}

// Synth fills the buffer with the sum of all the playing compositions. Each
// composition stays within [-1, 1] but the sum is not limited.
func (m *Mixer) Synth(sampleRate int, buffer []float32) {
	var active [MaxChannels]*Composition
	n := 0
	for i := range m.channels {
		c := m.channels[i].Load()
		if c == nil || c.Done() || slices.Contains(active[:n], c) {
			continue // moved to another channel while scanning
		}
		active[n] = c
		n++
	}
	for i := range buffer {
		var frame float32
		for _, c := range active[:n] {
			c.Synth(sampleRate, &frame)
		}
		buffer[i] = frame
	}
}
