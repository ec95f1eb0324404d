package synth

import (
	"math"

	"github.com/bloopsaphone/bloops"
)

const (
	phaserSize = 1024
	noiseSize  = 32
	oversample = 8
	minPeriod  = 8
)

// indices of voice.filter
const (
	lpOut     = iota // low-pass output
	lpDelta          // low-pass velocity
	lpCutoff         // low-pass corner
	lpSweep          // per step low-pass corner multiplier
	lpDamping        // resonance damping
	hpOut            // high-pass output
	hpCutoff         // high-pass corner
	hpSweep          // per frame high-pass corner multiplier
)

// voice is the real-time state of one track of a composition. All buffers
// are fixed size so that synthesizing never allocates.
type voice struct {
	track   *Track
	params  bloops.Params // working copy, modified by the notes
	playing bool

	frames   int // frames since the composition started playing
	nextTime int // frame on which the next note starts
	idx      int // index of the next note

	period    float64
	maxPeriod float64
	slide     float64
	dslide    float64
	square    float64
	sweep     float64
	arp       float64
	atime     int
	alimit    int
	repeat    int
	limit     int

	vibePhase float64
	vibeSpeed float64
	vibeDepth float64

	envStage  int
	envTime   int
	envLength [3]int
	envVolume float64

	phase  int
	fphase float64
	dphase float64
	iphase int
	phasex int

	filter   [8]float64
	phaser   [phaserSize]float64
	noise    [noiseSize]float64
	randSeed uint32
}

func newVoice(t *Track) *voice {
	return &voice{track: t, params: t.params, randSeed: 1}
}

func sq(x float32) float64 {
	return float64(x) * float64(x)
}

func cube(x float32) float64 {
	return float64(x) * float64(x) * float64(x)
}

// play rewinds the voice to the beginning of its track and restores the
// instrument of the track.
func (v *voice) play() {
	v.params = v.track.params
	v.reset()
	v.start()
	v.frames, v.nextTime, v.idx = 0, 0, 0
	if len(v.track.notes) == 0 {
		v.playing = false
	}
}

// start retriggers the oscillator, the envelope, the filters and the phaser.
func (v *voice) start() {
	p := &v.params
	v.filter[lpOut] = 0
	v.filter[lpDelta] = 0
	v.filter[lpCutoff] = cube(p.LPF) * 0.1
	v.filter[lpSweep] = 1 + float64(p.LSweep)*1e-4
	v.filter[lpDamping] = min(5/(1+sq(p.Resonance)*20)*(0.01+v.filter[lpCutoff]), 0.8)
	v.filter[hpOut] = 0
	v.filter[hpCutoff] = sq(p.HPF) * 0.1
	v.filter[hpSweep] = 1 + float64(p.HSweep)*3e-4

	v.vibePhase = 0
	v.vibeSpeed = sq(p.VSpeed) * 0.01
	v.vibeDepth = float64(p.Vibe) * 0.5

	v.envVolume = 0
	v.envStage = 0
	v.envTime = 0
	v.envLength = [3]int{
		int(sq(p.Attack) * 100000),
		int(sq(p.Sustain) * 100000),
		int(sq(p.Decay) * 100000),
	}

	v.phase = 0
	v.fphase = math.Copysign(sq(p.Phase)*1020, float64(p.Phase))
	v.dphase = math.Copysign(sq(p.PSweep), float64(p.PSweep))
	v.iphase = min(abs(int(v.fphase)), phaserSize-1)
	v.phasex = 0
	clear(v.phaser[:])
	v.fillNoise()

	v.repeat = 0
	v.limit = 0
	if p.Repeat != 0 {
		v.limit = int(sq(1-p.Repeat)*20000 + 32)
	}
	v.playing = true
}

// reset recomputes the pitch state from the working params.
func (v *voice) reset() {
	p := &v.params
	v.period = 100 / (sq(p.Freq) + 0.001)
	v.maxPeriod = 100 / (sq(p.Limit) + 0.001)
	v.slide = 1 - cube(p.Slide)*0.01
	v.dslide = -cube(p.DSlide) * 1e-6
	v.square = 0.5 - float64(p.Square)*0.5
	v.sweep = -float64(p.Sweep) * 5e-5
	if p.Arp >= 0 {
		v.arp = 1 - sq(p.Arp)*0.9
	} else {
		v.arp = 1 + sq(p.Arp)*10
	}
	v.atime = 0
	v.alimit = 0
	if p.ASpeed != 1 {
		v.alimit = int(sq(1-p.ASpeed)*20000 + 32)
	}
}

func (v *voice) fillNoise() {
	for i := range v.noise {
		v.randSeed *= 16007
		v.noise[i] = float64(int32(v.randSeed)) / -2147483648.0
	}
}

// begin starts the note n: a tone without pitch stops the voice, anything
// else applies the modifiers of the note and retriggers the voice.
func (v *voice) begin(n *bloops.Note) {
	freq := toneFreq(n.Tone, n.Octave)
	if freq == 0 {
		v.period = 0
		v.playing = false
		return
	}
	for _, m := range n.Modifiers {
		v.params.Apply(m)
	}
	v.reset()
	v.start()
	v.period = 100 / (freq*freq + 0.001)
}

// noteFrames is the length of a note of the given duration in frames.
func noteFrames(sampleRate, tempo, duration int) int {
	beat := float64(sampleRate) * 60 / float64(max(tempo, 1))
	return max(int(math.Round(beat*4/float64(max(duration, 1)))), 1)
}

// synth advances the voice by one frame and adds its output to frame. It
// reports whether the voice still has something to play.
func (v *voice) synth(sampleRate, tempo int, volume float32, frame *float32) bool {
	notes := v.track.notes
	if v.frames == v.nextTime {
		if v.idx < len(notes) {
			n := &notes[v.idx]
			v.begin(n)
			v.nextTime += noteFrames(sampleRate, tempo, n.Duration)
		}
		v.idx++
	}
	more := len(notes) == 0 || v.idx <= len(notes) || v.playing
	v.frames++
	if !v.playing {
		return more
	}

	v.repeat++
	if v.limit != 0 && v.repeat >= v.limit {
		v.repeat = 0
		v.reset()
	}

	v.atime++
	if v.alimit != 0 && v.atime >= v.alimit {
		v.alimit = 0
		v.period *= v.arp
	}

	v.slide += v.dslide
	v.period *= v.slide
	if v.period > v.maxPeriod {
		v.period = v.maxPeriod
		if v.params.Limit > 0 {
			v.playing = false
			return more
		}
	}

	rfperiod := v.period
	if v.vibeDepth != 0 {
		v.vibePhase += v.vibeSpeed
		rfperiod = v.period * (1 + math.Sin(v.vibePhase)*v.vibeDepth)
	}
	period := max(int(rfperiod), minPeriod)

	v.square = min(max(v.square+v.sweep, 0), 0.5)

	v.envTime++
	for v.envTime >= v.envLength[v.envStage] {
		v.envTime = 0
		v.envStage++
		if v.envStage == len(v.envLength) {
			v.playing = false
			return more
		}
	}
	t := float64(v.envTime)
	switch v.envStage {
	case 0:
		v.envVolume = t / float64(v.envLength[0])
	case 1:
		v.envVolume = 1 + (1-t/float64(v.envLength[1]))*2*float64(v.params.Punch)
	case 2:
		v.envVolume = 1 - t/float64(v.envLength[2])
	}

	v.fphase += v.dphase
	v.iphase = min(abs(int(v.fphase)), phaserSize-1)

	if v.filter[hpSweep] != 1 {
		v.filter[hpCutoff] = min(max(v.filter[hpCutoff]*v.filter[hpSweep], 1e-5), 0.1)
	}

	var ssample float64
	for k := 0; k < oversample; k++ {
		v.phase++
		if v.phase >= period {
			v.phase %= period
			if v.params.Type == bloops.Noise {
				v.fillNoise()
			}
		}
		fp := float64(v.phase) / float64(period)

		var sample float64
		switch v.params.Type {
		case bloops.Square:
			if fp < v.square {
				sample = 0.5
			} else {
				sample = -0.5
			}
		case bloops.Sawtooth:
			sample = 1 - fp*2
		case bloops.Sine:
			sample = math.Sin(fp * 2 * math.Pi)
		case bloops.Noise:
			sample = v.noise[v.phase*noiseSize/period]
		}

		pp := v.filter[lpOut]
		v.filter[lpCutoff] = min(max(v.filter[lpCutoff]*v.filter[lpSweep], 0), 0.1)
		if v.params.LPF != 1 {
			v.filter[lpDelta] += (sample - v.filter[lpOut]) * v.filter[lpCutoff]
			v.filter[lpDelta] -= v.filter[lpDelta] * v.filter[lpDamping]
		} else {
			v.filter[lpOut] = sample
			v.filter[lpDelta] = 0
		}
		v.filter[lpOut] += v.filter[lpDelta]

		v.filter[hpOut] += v.filter[lpOut] - pp
		v.filter[hpOut] -= v.filter[hpOut] * v.filter[hpCutoff]
		sample = v.filter[hpOut]

		ssample += v.applyPhaser(sample) * v.envVolume
	}

	out := ssample / oversample * float64(volume) * 2 * float64(v.params.Volume)
	*frame += float32(min(max(out, -1), 1))
	return more
}

// applyPhaser writes the sample into the phaser ring and returns it mixed
// with the sample written iphase steps earlier.
func (v *voice) applyPhaser(sample float64) float64 {
	v.phaser[v.phasex] = sample
	sample += v.phaser[(v.phasex-v.iphase+phaserSize)&(phaserSize-1)]
	v.phasex = (v.phasex + 1) & (phaserSize - 1)
	return sample
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
