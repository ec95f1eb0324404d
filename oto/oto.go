//go:build !headless

// Package oto plays audio sources on the default sound device.
package oto

import (
	"fmt"
	"time"

	"github.com/bloopsaphone/bloops"
	"github.com/ebitengine/oto/v3"
)

type (
	// Context is a bloops.AudioContext on top of an oto context. Only one
	// Context can exist in a process.
	Context struct {
		context    *oto.Context
		sampleRate int
	}

	player struct {
		*stream
		player *oto.Player
	}
)

// NewContext opens the sound device for mono playback at the sample rate.
func NewContext(sampleRate int) (*Context, error) {
	context, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   50 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &Context{context: context, sampleRate: sampleRate}, nil
}

func (c *Context) SampleRate() int {
	return c.sampleRate
}

// Play starts pulling samples from the source.
func (c *Context) Play(source bloops.AudioSource) bloops.CloserWaiter {
	s := newStream(source, c.sampleRate)
	p := &player{stream: s, player: c.context.NewPlayer(s)}
	p.player.Play()
	return p
}

// Close suspends the device; oto contexts cannot be destroyed.
func (c *Context) Close() error {
	if err := c.context.Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	return nil
}

// Wait blocks until the source is done and the device has played what was
// already buffered, or until the player is closed.
func (p *player) Wait() {
	p.stream.Wait()
	for p.player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
}

func (p *player) Close() error {
	p.finish()
	if err := p.player.Close(); err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}
