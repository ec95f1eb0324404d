package bloops

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

type (
	// Params is the complete definition of an instrument. All the float fields
	// are nominally in the range [0, 1]; modifiers always clamp them to that
	// range, but values set directly (e.g. a negative arp to raise the pitch)
	// are used as is.
	Params struct {
		Type Waveform
		Pan  uint8 `yaml:",omitempty"`

		Volume  float32
		Punch   float32 `yaml:",omitempty"`
		Attack  float32 `yaml:",omitempty"`
		Sustain float32
		Decay   float32

		// pitch
		Freq   float32
		Limit  float32 `yaml:",omitempty"`
		Slide  float32 `yaml:",omitempty"`
		DSlide float32 `yaml:",omitempty"`

		// square wave duty cycle
		Square float32 `yaml:",omitempty"`
		Sweep  float32 `yaml:",omitempty"`

		// vibrato
		Vibe   float32 `yaml:",omitempty"`
		VSpeed float32 `yaml:",omitempty"`
		VDelay float32 `yaml:",omitempty"`

		// low-pass and high-pass filters
		LPF       float32
		LSweep    float32 `yaml:",omitempty"`
		Resonance float32 `yaml:",omitempty"`
		HPF       float32 `yaml:",omitempty"`
		HSweep    float32 `yaml:",omitempty"`

		// arpeggiator
		Arp    float32 `yaml:",omitempty"`
		ASpeed float32 `yaml:",omitempty"`

		// phaser
		Phase  float32 `yaml:",omitempty"`
		PSweep float32 `yaml:",omitempty"`

		Repeat float32 `yaml:",omitempty"`
	}

	// Field identifies one of the Params fields that a notation modifier can
	// change.
	Field int

	// Mode tells how a Modifier combines its value with the current value of
	// the field.
	Mode int

	// Modifier is a bracketed parameter change attached to a note, e.g.
	// [volume+0.2]. It is applied when the note starts playing.
	Modifier struct {
		Field Field
		Value float32
		Mode  Mode
	}
)

const (
	FieldVolume Field = iota
	FieldPunch
	FieldAttack
	FieldSustain
	FieldDecay
	FieldSquare
	FieldSweep
	FieldVibe
	FieldVSpeed
	FieldVDelay
	FieldLPF
	FieldLSweep
	FieldResonance
	FieldHPF
	FieldHSweep
	FieldArp
	FieldASpeed
	FieldPhase
	FieldPSweep
	FieldRepeat
	NumFields
)

const (
	ModeSet Mode = iota
	ModeAdd
	ModeSub
)

// fieldNames are the notation keywords, in the order the parser tries them.
var fieldNames = [NumFields]string{
	"volume", "punch", "attack", "sustain", "decay", "square", "sweep", "vibe",
	"vspeed", "vdelay", "lpf", "lsweep", "resonance", "hpf", "hsweep", "arp",
	"aspeed", "phase", "psweep", "repeat",
}

// DefaultParams returns the parameters of the plain square wave instrument.
func DefaultParams() Params {
	return Params{
		Type:    Square,
		Volume:  0.5,
		Sustain: 0.3,
		Decay:   0.4,
		Freq:    0.3,
		LPF:     1.0,
	}
}

func (f Field) String() string {
	if f < 0 || f >= NumFields {
		return "unknown"
	}
	return fieldNames[f]
}

// ParseField returns the Field with the given notation keyword.
func ParseField(name string) (Field, bool) {
	for i, n := range fieldNames {
		if n == name {
			return Field(i), true
		}
	}
	return 0, false
}

// FieldNames returns the notation keywords of all the modifiable fields.
func FieldNames() []string {
	return fieldNames[:]
}

// Field returns a pointer to the float field identified by f, or nil if f is
// not a valid Field.
func (p *Params) Field(f Field) *float32 {
	switch f {
	case FieldVolume:
		return &p.Volume
	case FieldPunch:
		return &p.Punch
	case FieldAttack:
		return &p.Attack
	case FieldSustain:
		return &p.Sustain
	case FieldDecay:
		return &p.Decay
	case FieldSquare:
		return &p.Square
	case FieldSweep:
		return &p.Sweep
	case FieldVibe:
		return &p.Vibe
	case FieldVSpeed:
		return &p.VSpeed
	case FieldVDelay:
		return &p.VDelay
	case FieldLPF:
		return &p.LPF
	case FieldLSweep:
		return &p.LSweep
	case FieldResonance:
		return &p.Resonance
	case FieldHPF:
		return &p.HPF
	case FieldHSweep:
		return &p.HSweep
	case FieldArp:
		return &p.Arp
	case FieldASpeed:
		return &p.ASpeed
	case FieldPhase:
		return &p.Phase
	case FieldPSweep:
		return &p.PSweep
	case FieldRepeat:
		return &p.Repeat
	}
	return nil
}

// Apply changes the field selected by the modifier and clamps the result to
// [0, 1], whatever the mode.
func (p *Params) Apply(m Modifier) {
	f := p.Field(m.Field)
	if f == nil {
		return
	}
	switch m.Mode {
	case ModeAdd:
		*f += m.Value
	case ModeSub:
		*f -= m.Value
	default:
		*f = m.Value
	}
	*f = min(max(*f, 0), 1)
}

// UnmarshalYAML decodes the params on top of DefaultParams, so keys missing
// from the document keep their default values.
func (p *Params) UnmarshalYAML(value *yaml.Node) error {
	type plain Params
	*p = DefaultParams()
	return value.Decode((*plain)(p))
}

// UnmarshalJSON works like UnmarshalYAML.
func (p *Params) UnmarshalJSON(data []byte) error {
	type plain Params
	*p = DefaultParams()
	return json.Unmarshal(data, (*plain)(p))
}
