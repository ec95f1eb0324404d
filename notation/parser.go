// Package notation reads and writes the compact text notation of tunes.
//
// A tune is scanned left to right. The scanner remembers the current octave
// (initially 4) and the current duration (initially 4, a quarter note), and
// at every position tries, in order:
//
//	note      [len] letter [b|#] [octave 1-8] {[modifier]}   e.g. 8:C#5[volume+0.1]
//	rest      len                                             e.g. 16
//	shift     (+|-) [len]                                     octave up / down
//	space     one or more blanks
//
// where len is a number not starting with 0, optionally followed by ':'. A
// len on a note or a rest becomes the current duration; an octave digit
// becomes the current octave. A shift changes the octave by one and always
// resets the duration to 4: a number following the shift is consumed but
// has no effect. Scanning stops at the first position where nothing
// matches; the rest of the input is ignored.
//
// Modifiers look like [volume:0.5] (set), [volume+0.1] (add) or
// [volume-:0.1] (subtract); the keyword can be followed by ':' or blanks, the
// sign by ':' or blanks. A '-' directly followed by a digit is the sign of
// the number, so [volume-0.1] and [volume:-0.1] set -0.1.
package notation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bloopsaphone/bloops"
)

const (
	initialOctave   = 4
	initialDuration = 4
)

// ErrIncomplete is returned (wrapped in an IncompleteError) by Validate when
// the scanner stopped before the end of the input.
var ErrIncomplete = errors.New("notation: unrecognized input")

// IncompleteError tells where the scanner stopped.
type IncompleteError struct {
	Offset    int    // byte offset of the first unrecognized character
	Remainder string // the ignored input
}

func (e *IncompleteError) Error() string {
	rem := e.Remainder
	if len(rem) > 16 {
		rem = rem[:16] + "..."
	}
	return fmt.Sprintf("notation: unrecognized input at offset %d: %q", e.Offset, rem)
}

func (e *IncompleteError) Unwrap() error {
	return ErrIncomplete
}

// scanner holds the lexical context carried from one token to the next.
type scanner struct {
	input    string
	pos      int
	octave   int
	duration int
	notes    []bloops.Note
}

// Parse returns the notes of the tune. It never fails: unrecognized input
// ends the tune.
func Parse(text string) []bloops.Note {
	notes, _ := ParseRemainder(text)
	return notes
}

// ParseRemainder is like Parse but also returns the input that was ignored.
func ParseRemainder(text string) ([]bloops.Note, string) {
	s := scanner{input: text, octave: initialOctave, duration: initialDuration}
	s.run()
	return s.notes, s.input[s.pos:]
}

// Validate returns an *IncompleteError if Parse would ignore part of text.
func Validate(text string) error {
	_, rem := ParseRemainder(text)
	if rem == "" {
		return nil
	}
	return &IncompleteError{Offset: len(text) - len(rem), Remainder: rem}
}

func (s *scanner) run() {
	for s.pos < len(s.input) {
		if !s.note() && !s.rest() && !s.shift() && !s.space() {
			return
		}
	}
}

// note tries to scan a note token at the current position. A number followed
// by a letter is a note with an inline duration rather than a rest, so this
// is tried before rest.
func (s *scanner) note() bool {
	pos := s.pos
	dur, pos, hasDur := s.length(pos)
	if pos >= len(s.input) {
		return false
	}
	letter := s.input[pos]
	if !isNoteLetter(letter) {
		return false
	}
	pos++
	var accidental byte
	if pos < len(s.input) && (s.input[pos] == 'b' || s.input[pos] == '#') {
		accidental = s.input[pos]
		pos++
	}
	octave := s.octave
	if pos < len(s.input) && s.input[pos] >= '1' && s.input[pos] <= '8' {
		octave = int(s.input[pos] - '0')
		pos++
	}
	var mods []bloops.Modifier
	for {
		m, next, ok := s.modifier(pos)
		if !ok {
			break
		}
		mods = append(mods, m)
		pos = next
	}
	if hasDur {
		s.duration = dur
	}
	s.octave = octave
	s.notes = append(s.notes, bloops.Note{
		Tone:      tone(letter, accidental),
		Octave:    s.octave,
		Duration:  s.duration,
		Modifiers: mods,
	})
	s.pos = pos
	return true
}

// rest scans a standalone duration, which sets the current duration and
// emits a rest.
func (s *scanner) rest() bool {
	dur, pos, ok := s.length(s.pos)
	if !ok {
		return false
	}
	s.duration = dur
	s.notes = append(s.notes, bloops.Note{Tone: bloops.Rest, Octave: s.octave, Duration: s.duration})
	s.pos = pos
	return true
}

func (s *scanner) shift() bool {
	if s.pos >= len(s.input) {
		return false
	}
	switch s.input[s.pos] {
	case '+':
		s.octave++
	case '-':
		s.octave--
	default:
		return false
	}
	_, pos, _ := s.length(s.pos + 1)
	s.duration = initialDuration
	s.pos = pos
	return true
}

func (s *scanner) space() bool {
	pos := s.pos
	for pos < len(s.input) && isSpace(s.input[pos]) {
		pos++
	}
	if pos == s.pos {
		return false
	}
	s.pos = pos
	return true
}

// length scans a number not starting with 0, optionally followed by ':'.
// On failure it returns pos unchanged.
func (s *scanner) length(pos int) (int, int, bool) {
	end := pos
	for end < len(s.input) && isDigit(s.input[end]) {
		end++
	}
	if end == pos || s.input[pos] == '0' {
		return 0, pos, false
	}
	val, err := strconv.Atoi(s.input[pos:end])
	if err != nil {
		return 0, pos, false
	}
	if end < len(s.input) && s.input[end] == ':' {
		end++
	}
	return val, end, true
}

func (s *scanner) modifier(pos int) (bloops.Modifier, int, bool) {
	var ret bloops.Modifier
	if pos >= len(s.input) || s.input[pos] != '[' {
		return ret, pos, false
	}
	pos++
	field, ok := bloops.Field(-1), false
	for i, name := range bloops.FieldNames() {
		if strings.HasPrefix(s.input[pos:], name) {
			field, ok = bloops.Field(i), true
			pos += len(name)
			break
		}
	}
	if !ok {
		return ret, pos, false
	}
	pos = s.separator(pos)
	mode := bloops.ModeSet
	if pos < len(s.input) {
		switch s.input[pos] {
		case '+':
			mode = bloops.ModeAdd
			pos = s.separator(pos + 1)
		case '-':
			if next := pos + 1; next < len(s.input) && (s.input[next] == ':' || isBlank(s.input[next])) {
				mode = bloops.ModeSub
				pos = s.separator(next)
			}
		case ':':
			pos++ // [volume::-0.5]
		}
	}
	val, pos, ok := s.number(pos)
	if !ok || pos >= len(s.input) || s.input[pos] != ']' {
		return ret, pos, false
	}
	return bloops.Modifier{Field: field, Value: val, Mode: mode}, pos + 1, true
}

// separator skips either a single ':' or any number of blanks.
func (s *scanner) separator(pos int) int {
	if pos < len(s.input) && s.input[pos] == ':' {
		return pos + 1
	}
	for pos < len(s.input) && isBlank(s.input[pos]) {
		pos++
	}
	return pos
}

// number scans an optionally negative decimal: digits with an optional
// fraction, e.g. 1, 0.25, -3.5.
func (s *scanner) number(pos int) (float32, int, bool) {
	start := pos
	if pos < len(s.input) && s.input[pos] == '-' {
		pos++
	}
	intStart := pos
	for pos < len(s.input) && isDigit(s.input[pos]) {
		pos++
	}
	if pos == intStart {
		return 0, start, false
	}
	if pos+1 < len(s.input) && s.input[pos] == '.' && isDigit(s.input[pos+1]) {
		pos++
		for pos < len(s.input) && isDigit(s.input[pos]) {
			pos++
		}
	}
	val, err := strconv.ParseFloat(s.input[start:pos], 32)
	if err != nil {
		return 0, start, false
	}
	return float32(val), pos, true
}

// tone maps a pitch letter and accidental to the chromatic alphabet.
func tone(letter, accidental byte) bloops.Tone {
	idx := 0
	switch accidental {
	case 'b':
		idx = 1
	case '#':
		idx = 2
	}
	switch letter | 0x20 { // lower case
	case 'a':
		return [3]bloops.Tone{'A', 'a', 'b'}[idx]
	case 'b':
		return [3]bloops.Tone{'B', 'b', 'C'}[idx]
	case 'c':
		return [3]bloops.Tone{'C', 'B', 'd'}[idx]
	case 'd':
		return [3]bloops.Tone{'D', 'd', 'e'}[idx]
	case 'e':
		return [3]bloops.Tone{'E', 'e', bloops.ESharp}[idx]
	case 'f':
		return [3]bloops.Tone{'F', 'E', 'g'}[idx]
	case 'g':
		return [3]bloops.Tone{'G', 'g', 'a'}[idx]
	}
	return bloops.Rest
}

func isNoteLetter(c byte) bool {
	return (c >= 'a' && c <= 'g') || (c >= 'A' && c <= 'G')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}

func isSpace(c byte) bool {
	return isBlank(c) || c == '\n' || c == '\r'
}
