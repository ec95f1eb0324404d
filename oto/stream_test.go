package oto

import (
	"bytes"
	"io"
	"testing"
)

type countdown struct {
	frames int
}

func (c *countdown) Synth(sampleRate int, buf []float32) {
	for i := range buf {
		buf[i] = 0.5
	}
	c.frames -= len(buf)
}

func (c *countdown) Done() bool {
	return c.frames <= 0
}

func TestFloatBufferTo16BitLE(t *testing.T) {
	out := make([]byte, 0, 8)
	got := FloatBufferTo16BitLE([]float32{0, 1, -2, 0.5}, out)
	want := []byte{0x00, 0x00, 0xff, 0x7f, 0x01, 0x80, 0xff, 0x3f}
	if !bytes.Equal(got, want) {
		t.Fatalf("FloatBufferTo16BitLE = % x, want % x", got, want)
	}
	if &got[0] != &out[:1][0] {
		t.Fatal("FloatBufferTo16BitLE did not reuse the output buffer")
	}
}

func TestStreamFinishesWithSource(t *testing.T) {
	src := &countdown{frames: 3000}
	s := newStream(src, 44100)
	buf := make([]byte, 2048)
	for k := 0; k < 2; k++ {
		if n, err := s.Read(buf); n != len(buf) || err != nil {
			t.Fatalf("Read = %d, %v; want %d, nil", n, err, len(buf))
		}
	}
	select {
	case <-s.done:
		t.Fatal("stream finished before the source")
	default:
	}
	s.Read(buf)
	s.Wait()
	if _, err := s.Read(buf); err != io.EOF {
		t.Fatalf("Read after the source finished returned %v, want io.EOF", err)
	}
}

func TestStreamClose(t *testing.T) {
	s := newStream(&countdown{frames: 1 << 30}, 44100)
	s.finish()
	s.finish()
	s.Wait()
	if _, err := s.Read(make([]byte, 16)); err != io.EOF {
		t.Fatalf("Read after finish returned %v, want io.EOF", err)
	}
}

func TestStreamReadsLongBuffersInChunks(t *testing.T) {
	src := &countdown{frames: 1 << 30}
	s := newStream(src, 44100)
	p := make([]byte, 2*(2*chunkSize+100))
	if n, err := s.Read(p); n != len(p) || err != nil {
		t.Fatalf("Read = %d, %v; want %d, nil", n, err, len(p))
	}
	if len(s.buf) != chunkSize {
		t.Fatalf("stream buffer grew to %d samples", len(s.buf))
	}
	if got := 1<<30 - src.frames; got != len(p)/2 {
		t.Fatalf("source synthesized %d frames, want %d", got, len(p)/2)
	}
	for i := 0; i < len(p); i += 2 {
		if p[i] != 0xff || p[i+1] != 0x3f {
			t.Fatalf("sample %d is % x, want ff 3f", i/2, p[i:i+2])
		}
	}
	if allocs := testing.AllocsPerRun(10, func() { s.Read(p) }); allocs != 0 {
		t.Fatalf("Read allocated %v times", allocs)
	}
}
