package synth

import (
	"math"
	"testing"

	"github.com/bloopsaphone/bloops"
	"github.com/bloopsaphone/bloops/notation"
)

const testRate = 44100

func newTestVoice(params bloops.Params, tune string) *voice {
	v := newVoice(NewTrack(params, notation.Parse(tune)))
	v.play()
	return v
}

func (v *voice) run(frames int) (peak float32) {
	for k := 0; k < frames; k++ {
		var frame float32
		v.synth(testRate, bloops.DefaultTempo, bloops.DefaultVolume, &frame)
		peak = max(peak, float32(math.Abs(float64(frame))))
	}
	return peak
}

func notePeriod(t bloops.Tone, octave int) float64 {
	f := toneFreq(t, octave)
	return 100 / (f*f + 0.001)
}

func TestFreqTable(t *testing.T) {
	f := toneFreq('A', 4)
	if hz := 3528 * (f*f + 0.001); math.Abs(hz-440) > 1e-6 {
		t.Fatalf("A4 plays at %v Hz, want 440", hz)
	}
	for _, tone := range []bloops.Tone{bloops.ESharp, bloops.Rest, 'x'} {
		if f := toneFreq(tone, 4); f != 0 {
			t.Errorf("toneFreq(%v, 4) = %v, want 0", tone, f)
		}
	}
	if f := toneFreq('C', 0); f != 0 {
		t.Errorf("toneFreq('C', 0) = %v, want 0", f)
	}
	for s := 1; s < 12; s++ {
		if freqTable[s][0] <= freqTable[s-1][0] {
			t.Fatalf("frequency table is not ascending at semitone %d", s)
		}
	}
}

func TestRepeatResetsPitch(t *testing.T) {
	params := bloops.DefaultParams()
	params.Repeat = 0.5
	v := newTestVoice(params, "1C")
	if v.limit != 5032 {
		t.Fatalf("repeat period = %d, want 5032", v.limit)
	}
	v.run(5031)
	if want := notePeriod('C', 4); v.period != want {
		t.Fatalf("period before the repeat = %v, want the note period %v", v.period, want)
	}
	v.run(1)
	if want := 100 / (sq(params.Freq) + 0.001); v.period != want {
		t.Fatalf("period after the repeat = %v, want the instrument period %v", v.period, want)
	}
	if v.repeat != 0 {
		t.Fatalf("repeat counter = %d after the repeat, want 0", v.repeat)
	}
	if !v.playing {
		t.Fatal("repeat stopped the voice")
	}
}

func TestNoRepeatWithoutRepeatParam(t *testing.T) {
	v := newTestVoice(bloops.DefaultParams(), "1C")
	if v.limit != 0 {
		t.Fatalf("repeat period = %d, want 0", v.limit)
	}
	v.run(20000)
	if want := notePeriod('C', 4); v.period != want {
		t.Fatalf("period = %v, want %v", v.period, want)
	}
}

func TestEnvelopeStopsVoice(t *testing.T) {
	v := newTestVoice(bloops.DefaultParams(), "1C")
	v.run(24000)
	if !v.playing {
		t.Fatal("voice stopped before the end of the decay")
	}
	v.run(2000)
	if v.playing {
		t.Fatal("voice still playing after the decay")
	}
	if peak := v.run(1000); peak != 0 {
		t.Fatalf("stopped voice produced %v", peak)
	}
}

func TestRestSilencesVoice(t *testing.T) {
	v := newTestVoice(bloops.DefaultParams(), "8C 8 8C")
	eighth := noteFrames(testRate, bloops.DefaultTempo, 8)
	if peak := v.run(eighth); peak == 0 {
		t.Fatal("note produced no output")
	}
	if peak := v.run(eighth); peak != 0 || v.playing {
		t.Fatalf("rest produced %v (playing %v), want silence", peak, v.playing)
	}
	if peak := v.run(eighth); peak == 0 || !v.playing {
		t.Fatal("note after the rest did not restart the voice")
	}
}

func TestESharpIsSilent(t *testing.T) {
	v := newTestVoice(bloops.DefaultParams(), "E#")
	if peak := v.run(1000); peak != 0 {
		t.Fatalf("E# produced %v, want silence", peak)
	}
}

func TestModifiersPersistUntilPlay(t *testing.T) {
	v := newTestVoice(bloops.DefaultParams(), "C[volume+0.5] D E[volume+0.9][sustain:-1]")
	quarter := noteFrames(testRate, bloops.DefaultTempo, 4)
	v.run(1)
	if v.params.Volume != 1 {
		t.Fatalf("volume after +0.5 = %v, want 1", v.params.Volume)
	}
	v.run(quarter)
	if v.params.Volume != 1 {
		t.Fatalf("volume on the next note = %v, want 1", v.params.Volume)
	}
	v.run(quarter)
	if v.params.Volume != 1 || v.params.Sustain != 0 {
		t.Fatalf("clamped params = volume %v sustain %v, want 1 and 0", v.params.Volume, v.params.Sustain)
	}
	v.play()
	if v.params.Volume != 0.5 {
		t.Fatalf("volume after play = %v, want 0.5", v.params.Volume)
	}
}

func TestZeroNoteVoice(t *testing.T) {
	v := newTestVoice(bloops.DefaultParams(), "")
	for k := 0; k < 100000; k++ {
		var frame float32
		if !v.synth(testRate, bloops.DefaultTempo, bloops.DefaultVolume, &frame) {
			t.Fatal("voice without notes reported it is finished")
		}
		if frame != 0 {
			t.Fatalf("voice without notes produced %v", frame)
		}
	}
}

func TestVoiceStaysInRange(t *testing.T) {
	for _, name := range bloops.PresetNames() {
		params, _ := bloops.Preset(name)
		params.Volume = 1
		v := newVoice(NewTrack(params, notation.Parse("16C E G +C - 8 2A1 C8")))
		v.play()
		for k := 0; k < 100000; k++ {
			var frame float32
			v.synth(testRate, bloops.DefaultTempo, 1, &frame)
			if frame < -1 || frame > 1 || math.IsNaN(float64(frame)) {
				t.Fatalf("preset %s produced %v", name, frame)
			}
		}
	}
}

func TestStartResetsOscillatorPhase(t *testing.T) {
	v := newTestVoice(bloops.DefaultParams(), "8C 8D")
	v.run(noteFrames(testRate, bloops.DefaultTempo, 8))
	if v.phase == 0 {
		t.Fatal("oscillator did not advance during the first note")
	}
	v.run(1)
	if v.phase != oversample {
		t.Fatalf("phase after the first frame of the second note = %d, want %d", v.phase, oversample)
	}
}

func TestArpeggioIsOneShot(t *testing.T) {
	params := bloops.DefaultParams()
	params.ASpeed = 0.5
	params.Arp = 0.5
	v := newTestVoice(params, "1C")
	if v.alimit != 5032 {
		t.Fatalf("arpeggio delay = %d, want 5032", v.alimit)
	}
	v.run(5031)
	before := notePeriod('C', 4)
	if v.period != before {
		t.Fatalf("period before the arpeggio = %v, want %v", v.period, before)
	}
	v.run(1)
	want := before * (1 - sq(params.Arp)*0.9)
	if v.period != want || v.alimit != 0 {
		t.Fatalf("after the arpeggio period = %v alimit = %d, want %v and 0", v.period, v.alimit, want)
	}
	v.run(2 * 5032)
	if v.period != want {
		t.Fatalf("arpeggio applied again: period = %v, want %v", v.period, want)
	}
}

func TestSlideCeiling(t *testing.T) {
	params := bloops.DefaultParams()
	params.Slide = -0.5 // period grows 0.125% per frame
	params.Limit = 0.2
	v := newTestVoice(params, "1C")
	v.run(100)
	if !v.playing || v.period >= v.maxPeriod {
		t.Fatalf("voice reached the ceiling too early: period %v of %v", v.period, v.maxPeriod)
	}
	v.run(1000)
	if v.playing {
		t.Fatal("slide past the ceiling did not stop the voice")
	}
	if v.period != v.maxPeriod {
		t.Fatalf("period = %v, want the ceiling %v", v.period, v.maxPeriod)
	}

	params.Limit = 0
	v = newTestVoice(params, "1C")
	v.run(6000)
	if !v.playing {
		t.Fatal("slide stopped a voice without a limit")
	}
	if v.period != v.maxPeriod {
		t.Fatalf("period = %v, want it clamped to %v", v.period, v.maxPeriod)
	}
}

func TestPhaserReadsBack(t *testing.T) {
	params := bloops.DefaultParams()
	params.Phase = 0.5
	v := newTestVoice(params, "1C")
	v.run(1)
	if v.iphase != 255 {
		t.Fatalf("phaser offset = %d, want 255", v.iphase)
	}
	v.run(199)
	if v.phasex != 200*oversample%phaserSize {
		t.Fatalf("phaser write index = %d, want %d", v.phasex, 200*oversample%phaserSize)
	}
	for _, x := range []float64{0.25, -0.125, 0} {
		idx := v.phasex
		echo := v.phaser[(idx-255+phaserSize)%phaserSize]
		if got := v.applyPhaser(x); got != x+echo {
			t.Fatalf("applyPhaser(%v) = %v, want %v", x, got, x+echo)
		}
		if v.phaser[idx] != x || v.phasex != (idx+1)%phaserSize {
			t.Fatalf("ring slot %d = %v, write index %d", idx, v.phaser[idx], v.phasex)
		}
	}

	params.PSweep = 1
	v = newTestVoice(params, "1C")
	v.run(2000)
	if v.iphase != phaserSize-1 {
		t.Fatalf("swept phaser offset = %d, want it clamped to %d", v.iphase, phaserSize-1)
	}
}

func TestNoiseRegeneratedOnWrap(t *testing.T) {
	params := bloops.DefaultParams()
	params.Type = bloops.Noise
	v := newTestVoice(params, "1C")
	v.run(1)
	noise, seed := v.noise, v.randSeed
	for k := 0; k < 1000; k++ {
		prev := v.phase
		v.run(1)
		if v.phase > prev {
			if v.noise != noise {
				t.Fatal("noise changed without a wraparound")
			}
			continue
		}
		for i := range noise {
			seed *= 16007
			noise[i] = float64(int32(seed)) / -2147483648.0
		}
		if v.noise != noise || v.randSeed != seed {
			t.Fatal("wraparound did not regenerate the noise from the seed")
		}
		return
	}
	t.Fatal("oscillator never wrapped")
}
