package schedule

import (
	"encoding"
	"fmt"
	"strings"
)

// Preset selects how the schedule table is filled.
type Preset uint8

const (
	// PresetLinear sets level i to base*(i+1).
	PresetLinear Preset = iota
	// PresetConst sets every level to base.
	PresetConst
	// PresetCustom takes the table verbatim from the config.
	PresetCustom
)

var (
	_ fmt.Stringer             = Preset(0)
	_ encoding.TextMarshaler   = Preset(0)
	_ encoding.TextUnmarshaler = (*Preset)(nil)
)

func (p Preset) String() string {
	switch p {
	case PresetLinear:
		return "linear"
	case PresetConst:
		return "const"
	case PresetCustom:
		return "custom"
	default:
		return fmt.Sprintf("Preset(%d)", uint8(p))
	}
}

func (p Preset) MarshalText() ([]byte, error) {
	if p > PresetCustom {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPreset, uint8(p))
	}
	return []byte(p.String()), nil
}

func (p *Preset) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "linear":
		*p = PresetLinear
	case "const", "constant":
		*p = PresetConst
	case "custom":
		*p = PresetCustom
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPreset, text)
	}
	return nil
}
