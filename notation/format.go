package notation

import (
	"strconv"
	"strings"

	"github.com/bloopsaphone/bloops"
)

// spellings gives the letter and accidental that Parse maps to each tone.
var spellings = map[bloops.Tone]string{
	'A': "A", 'b': "A#", 'B': "B", 'C': "C", 'd': "C#", 'D': "D",
	'e': "D#", 'E': "E", 'F': "F", 'g': "F#", 'G': "G", 'a': "G#",
	bloops.ESharp: "E#",
}

// Format writes the notes in the notation, so that Parse(Format(notes))
// gives back the same notes. Every note is written with an explicit
// duration. Octaves that an octave digit cannot express are reached with
// shifts. Tones outside the chromatic alphabet are written as rests.
func Format(notes []bloops.Note) string {
	var b strings.Builder
	octave := initialOctave
	for i, n := range notes {
		if i > 0 {
			b.WriteByte(' ')
		}
		spelling, pitched := spellings[n.Tone]
		digit := pitched && n.Octave >= 1 && n.Octave <= 8
		if !digit {
			for ; octave < n.Octave; octave++ {
				b.WriteString("+ ")
			}
			for ; octave > n.Octave; octave-- {
				b.WriteString("- ")
			}
		}
		b.WriteString(strconv.Itoa(max(n.Duration, 1)))
		if !pitched {
			continue
		}
		b.WriteByte(':')
		b.WriteString(spelling)
		if digit {
			b.WriteByte(byte('0' + n.Octave))
			octave = n.Octave
		}
		for _, m := range n.Modifiers {
			writeModifier(&b, m)
		}
	}
	return b.String()
}

func writeModifier(b *strings.Builder, m bloops.Modifier) {
	b.WriteByte('[')
	b.WriteString(m.Field.String())
	switch m.Mode {
	case bloops.ModeAdd:
		b.WriteByte('+')
	case bloops.ModeSub:
		b.WriteString("-:")
	default:
		b.WriteByte(':')
	}
	b.WriteString(strconv.FormatFloat(float64(m.Value), 'f', -1, 32))
	b.WriteByte(']')
}
