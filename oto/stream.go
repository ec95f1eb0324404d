package oto

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/bloopsaphone/bloops"
)

// chunkSize is the most samples a stream asks its source for at once; longer
// reads are synthesized in several chunks.
const chunkSize = 4096

// stream is the io.Reader a player pulls 16-bit mono PCM from. Read runs on
// the audio goroutine; finish and Wait may be called from any goroutine.
type stream struct {
	source     bloops.AudioSource
	doner      interface{ Done() bool }
	sampleRate int
	buf        []float32
	finished   atomic.Bool
	done       chan struct{}
	once       sync.Once
}

func newStream(source bloops.AudioSource, sampleRate int) *stream {
	s := &stream{
		source:     source,
		sampleRate: sampleRate,
		buf:        make([]float32, chunkSize),
		done:       make(chan struct{}),
	}
	s.doner, _ = source.(interface{ Done() bool })
	return s
}

func (s *stream) Read(p []byte) (int, error) {
	if s.finished.Load() {
		return 0, io.EOF
	}
	n := len(p) / 2
	for off := 0; off < n; {
		samples := s.buf[:min(len(s.buf), n-off)]
		s.source.Synth(s.sampleRate, samples)
		FloatBufferTo16BitLE(samples, p[off*2:off*2])
		off += len(samples)
	}
	if s.doner != nil && s.doner.Done() {
		s.finish()
	}
	return n * 2, nil
}

func (s *stream) finish() {
	s.once.Do(func() {
		s.finished.Store(true)
		close(s.done)
	})
}

// Wait blocks until the source is done or the stream is closed.
func (s *stream) Wait() {
	<-s.done
}
