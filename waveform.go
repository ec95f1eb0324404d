package bloops

import "fmt"

// Waveform selects the oscillator shape of an instrument.
type Waveform int

const (
	Square Waveform = iota
	Sawtooth
	Sine
	Noise
)

var waveformNames = [...]string{"square", "sawtooth", "sine", "noise"}

func (w Waveform) String() string {
	if w < 0 || int(w) >= len(waveformNames) {
		return fmt.Sprintf("Waveform(%d)", int(w))
	}
	return waveformNames[w]
}

func (w Waveform) MarshalText() ([]byte, error) {
	if w < 0 || int(w) >= len(waveformNames) {
		return nil, fmt.Errorf("invalid waveform %d", int(w))
	}
	return []byte(waveformNames[w]), nil
}

func (w *Waveform) UnmarshalText(text []byte) error {
	for i, name := range waveformNames {
		if string(text) == name {
			*w = Waveform(i)
			return nil
		}
	}
	return fmt.Errorf("unknown waveform %q, expected one of square, sawtooth, sine, noise", text)
}
