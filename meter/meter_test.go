package meter_test

import (
	"math"
	"testing"

	"github.com/bloopsaphone/bloops/meter"
)

type constSource float32

func (c constSource) Synth(sampleRate int, buf []float32) {
	for i := range buf {
		buf[i] = float32(c)
	}
}

func TestDetectorSquareWave(t *testing.T) {
	d := meter.NewDetector(false)
	buf := make([]float32, 1000)
	for i := range buf {
		buf[i] = 0.5
		if i%2 == 1 {
			buf[i] = -0.5
		}
	}
	d.Process(buf[:300])
	d.Process(buf[300:])
	level := d.Result()
	want := meter.Decibel(20 * math.Log10(0.5))
	if math.Abs(float64(level.Peak-want)) > 1e-3 || math.Abs(float64(level.RMS-want)) > 1e-3 {
		t.Fatalf("level = %v, want peak and RMS %v", level, want)
	}
}

func TestDetectorSilence(t *testing.T) {
	d := meter.NewDetector(true)
	d.Process(make([]float32, 64))
	level := d.Result()
	if !math.IsInf(float64(level.Peak), -1) || !math.IsInf(float64(level.RMS), -1) {
		t.Fatalf("silence measured as %v", level)
	}
	if s := level.Peak.String(); s != "-inf dB" {
		t.Fatalf("Decibel.String() = %q, want -inf dB", s)
	}
}

func TestTruePeakSmallBuffers(t *testing.T) {
	d := meter.NewDetector(true)
	buf := make([]float32, 5)
	for i := 0; i < 100; i++ {
		for j := range buf {
			buf[j] = float32(math.Sin(float64(i*len(buf)+j) * 0.3))
		}
		d.Process(buf)
	}
	level := d.Result()
	if level.Peak < -0.5 || level.Peak > 1 {
		t.Fatalf("true peak of a full scale sine = %v, want about 0 dB", level.Peak)
	}
	d.Reset()
	if level := d.Result(); !math.IsInf(float64(level.Peak), -1) {
		t.Fatalf("peak after Reset = %v", level.Peak)
	}
}

func TestTap(t *testing.T) {
	tap := &meter.Tap{Source: constSource(0.25), Detector: meter.NewDetector(false)}
	buf := make([]float32, 128)
	tap.Synth(44100, buf)
	if buf[0] != 0.25 {
		t.Fatalf("tap changed the samples to %v", buf[0])
	}
	if tap.Done() {
		t.Fatal("tap reports done for a source that cannot tell")
	}
	want := meter.Decibel(20 * math.Log10(0.25))
	if got := tap.Detector.Result().RMS; math.Abs(float64(got-want)) > 1e-3 {
		t.Fatalf("RMS = %v, want %v", got, want)
	}
}
