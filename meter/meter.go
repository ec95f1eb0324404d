// Package meter measures the level of synthesized audio.
package meter

import (
	"fmt"
	"math"

	"github.com/bloopsaphone/bloops"
	"github.com/viterin/vek/vek32"
)

type (
	Decibel float32

	// Level is the loudness of everything a Detector has processed since the
	// last Reset. Peak is the true peak if the detector oversamples.
	Level struct {
		Peak Decibel
		RMS  Decibel
	}

	// Detector accumulates the peak and the RMS level of mono buffers. It
	// allocates only when it sees a buffer longer than any before.
	Detector struct {
		oversampling bool
		history      [11]float32
		peak         float32
		sumSquares   float64
		count        int
		tmp, tmp2    []float32
		out          []float32
	}

	// Tap is an audio source that measures the output of another source.
	Tap struct {
		Source   bloops.AudioSource
		Detector *Detector
	}
)

// NewDetector returns a detector. With oversampling, peaks are measured on a
// 4x oversampled signal, catching the inter-sample peaks a DAC would produce.
func NewDetector(oversampling bool) *Detector {
	return &Detector{oversampling: oversampling}
}

// Process adds buf to the measurement.
func (d *Detector) Process(buf []float32) {
	if len(buf) == 0 {
		return
	}
	setSliceLength(&d.tmp, len(buf))
	squares := vek32.Mul_Into(d.tmp, buf, buf)
	d.sumSquares += float64(vek32.Sum(squares))
	d.count += len(buf)
	var o []float32
	if d.oversampling {
		o = d.oversample(buf)
		vek32.Abs_Inplace(o)
	} else {
		o = vek32.Abs_Into(d.tmp, buf)
	}
	d.peak = max(d.peak, vek32.Max(o))
}

func (d *Detector) Result() Level {
	var rms float64
	if d.count > 0 {
		rms = math.Sqrt(d.sumSquares / float64(d.count))
	}
	return Level{Peak: amplitude2decibel(float64(d.peak)), RMS: amplitude2decibel(rms)}
}

func (d *Detector) Reset() {
	d.history = [11]float32{}
	d.peak = 0
	d.sumSquares = 0
	d.count = 0
}

func (l Level) String() string {
	return fmt.Sprintf("peak %v, RMS %v", l.Peak, l.RMS)
}

func (d Decibel) String() string {
	if math.IsInf(float64(d), -1) {
		return "-inf dB"
	}
	return fmt.Sprintf("%.1f dB", float32(d))
}

func amplitude2decibel(a float64) Decibel {
	return Decibel(20 * math.Log10(a))
}

// ref: https://www.itu.int/dms_pubrec/itu-r/rec/bs/R-REC-BS.1770-5-202311-I!!PDF-E.pdf
var oversamplingCoeffs = [4][12]float32{
	{0.0017089843750, 0.0109863281250, -0.0196533203125, 0.0332031250000, -0.0594482421875, 0.1373291015625, 0.9721679687500, -0.1022949218750, 0.0476074218750, -0.0266113281250, 0.0148925781250, -0.0083007812500},
	{-0.0291748046875, 0.0292968750000, -0.0517578125000, 0.0891113281250, -0.1665039062500, 0.4650878906250, 0.7797851562500, -0.2003173828125, 0.1015625000000, -0.0582275390625, 0.0330810546875, -0.0189208984375},
	{-0.0189208984375, 0.0330810546875, -0.058227539062, 0.1015625000000, -0.200317382812, 0.7797851562500, 0.4650878906250, -0.166503906250, 0.0891113281250, -0.051757812500, 0.0292968750000, -0.0291748046875},
	{-0.0083007812500, 0.0148925781250, -0.0266113281250, 0.0476074218750, -0.1022949218750, 0.9721679687500, 0.1373291015625, -0.0594482421875, 0.0332031250000, -0.0196533203125, 0.0109863281250, 0.0017089843750},
}

// oversample interpolates x to four times its rate with the polyphase filter
// above: out[4p+q] = sum_j coeffs[q][j] * x[p-j], where the samples before
// x[0] come from the previous buffer.
func (d *Detector) oversample(x []float32) []float32 {
	setSliceLength(&d.tmp, len(x))
	setSliceLength(&d.tmp2, len(x))
	setSliceLength(&d.out, 4*len(x))
	for q, coeffs := range oversamplingCoeffs {
		r := vek32.Zeros_Into(d.tmp2, len(x))
		for j, c := range coeffs {
			n := min(j, len(x))
			if n > 0 {
				vek32.MulNumber_Into(d.tmp[:n], d.history[11-j:11-j+n], c)
			}
			if n < len(x) {
				vek32.MulNumber_Into(d.tmp[n:], x[:len(x)-n], c)
			}
			vek32.Add_Inplace(r, d.tmp[:len(x)])
		}
		for p, v := range r {
			d.out[p*4+q] = v
		}
	}
	z := min(len(x), 11)
	copy(d.history[:11-z], d.history[z:11])
	copy(d.history[11-z:], x[len(x)-z:])
	return d.out[:len(x)*4]
}

func setSliceLength[T any](slice *[]T, length int) {
	if len(*slice) < length {
		*slice = append(*slice, make([]T, length-len(*slice))...)
	}
	*slice = (*slice)[:length]
}

// Synth fills buf from the source and measures it.
func (t *Tap) Synth(sampleRate int, buf []float32) {
	t.Source.Synth(sampleRate, buf)
	t.Detector.Process(buf)
}

// Done reports whether the source is done, if it can tell.
func (t *Tap) Done() bool {
	d, ok := t.Source.(interface{ Done() bool })
	return ok && d.Done()
}
