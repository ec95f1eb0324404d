package bloops

type (
	// Tone is one symbol of the chromatic alphabet used by the notation:
	// A b B C d D e E F g G a, where the lower case letters are the
	// semitones between the naturals (b = A#/Bb, d = C#/Db, e = D#/Eb,
	// g = F#/Gb, a = G#/Ab). The zero Tone is a rest.
	Tone byte

	// Note is one event of a tune: a tone (or a rest) played at an octave for
	// 4/Duration beats, with the parameter modifiers applied when it starts.
	Note struct {
		Tone      Tone
		Octave    int
		Duration  int
		Modifiers []Modifier `yaml:",omitempty"`
	}
)

// Rest is the tone of a note that silences the voice for its duration.
const Rest Tone = 0

// ESharp is what the notation produces for E#. It is not part of the
// chromatic alphabet and has no frequency, so it plays as silence.
const ESharp Tone = 'f'

// Chromatic lists the tones of one octave in ascending pitch, starting from C.
var Chromatic = [12]Tone{'C', 'd', 'D', 'e', 'E', 'F', 'g', 'G', 'a', 'A', 'b', 'B'}

func (t Tone) IsRest() bool {
	return t == Rest
}

// Semitone returns the position of the tone in Chromatic, or -1 if the tone
// has no pitch.
func (t Tone) Semitone() int {
	for i, c := range Chromatic {
		if c == t {
			return i
		}
	}
	return -1
}

func (t Tone) String() string {
	if t == Rest {
		return "rest"
	}
	return string(rune(t))
}
