//go:build headless

// Package oto plays audio sources on the default sound device. This build
// has no device: sources are pulled as fast as they synthesize and the
// samples are discarded.
package oto

import "github.com/bloopsaphone/bloops"

type (
	Context struct {
		sampleRate int
	}

	player struct {
		*stream
	}
)

func NewContext(sampleRate int) (*Context, error) {
	return &Context{sampleRate: sampleRate}, nil
}

func (c *Context) SampleRate() int {
	return c.sampleRate
}

func (c *Context) Play(source bloops.AudioSource) bloops.CloserWaiter {
	p := &player{stream: newStream(source, c.sampleRate)}
	go func() {
		buf := make([]byte, 4096)
		for {
			if _, err := p.Read(buf); err != nil {
				return
			}
		}
	}()
	return p
}

func (c *Context) Close() error {
	return nil
}

func (p *player) Close() error {
	p.finish()
	return nil
}
