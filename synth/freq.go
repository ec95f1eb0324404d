package synth

import (
	"math"

	"github.com/bloopsaphone/bloops"
)

const (
	minOctave = 1
	maxOctave = 8
)

// freqTable holds the normalized frequency parameter of every tone, indexed
// by semitone (C = 0) and octave - 1. Equal temperament, A4 = 440 Hz.
var freqTable [12][maxOctave]float64

func init() {
	for s := range freqTable {
		for o := range freqTable[s] {
			octave := o + minOctave
			hz := 440 * math.Pow(2, float64(octave-4)+float64(s-9)/12)
			freqTable[s][o] = hzToParam(hz)
		}
	}
}

// hzToParam inverts hz = 8*44100*(f*f+0.001)/100, the pitch an oscillator
// with period 100/(f*f+0.001) oversampled 8 times produces at 44.1 kHz.
func hzToParam(hz float64) float64 {
	return math.Sqrt(hz/3528 - 0.001)
}

// toneFreq returns the normalized frequency of the tone, or 0 if the tone has
// no pitch or the octave is out of range.
func toneFreq(t bloops.Tone, octave int) float64 {
	s := t.Semitone()
	if s < 0 || octave < minOctave || octave > maxOctave {
		return 0
	}
	return freqTable[s][octave-minOctave]
}
