// Package schedule turns a card's deck level into its next expiration date and
// holds the learn settings a session reads at start.
package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidSettings  = errors.New("schedule: invalid settings")
	ErrScheduleLength   = errors.New("schedule: custom schedule length does not match level count")
	ErrInvalidPreset    = errors.New("schedule: invalid preset")
	ErrInvalidTimeOfDay = errors.New("schedule: invalid time of day")
)

const (
	// DefaultLevels is the number of schedule entries when none is configured.
	DefaultLevels = 7

	// DefaultBaseMinutes is one day.
	DefaultBaseMinutes = 24 * 60
)

// Config is the user-facing form of the settings, as read from a YAML file.
// Zero fields take defaults in NewSettings.
type Config struct {
	Preset      Preset `yaml:"preset" validate:"lte=2"`
	Levels      int    `yaml:"levels" validate:"gte=0,lte=64"`
	BaseMinutes int    `yaml:"base_minutes" validate:"gte=0"`
	// Schedule is the explicit per-level delay table in minutes, used by the
	// custom preset.
	Schedule  []int      `yaml:"schedule,omitempty" validate:"omitempty,dive,gt=0"`
	TimeOfDay *TimeOfDay `yaml:"time_of_day,omitempty"`

	ShuffleRatio       float64 `yaml:"shuffle_ratio" validate:"gte=0,lte=1"`
	ShuffleWithinLevel bool    `yaml:"shuffle_within_level"`
	RetestFailedCards  bool    `yaml:"retest_failed_cards"`

	// FrontAmount and BackAmount are how many correct answers per side a card
	// needs before it is promoted. Both zero means one front answer.
	FrontAmount int `yaml:"front_amount" validate:"gte=0,lte=10"`
	BackAmount  int `yaml:"back_amount" validate:"gte=0,lte=10"`

	// BatchSize limits how many cards are in play at once; 0 means all.
	BatchSize int           `yaml:"batch_size" validate:"gte=0"`
	TimeLimit time.Duration `yaml:"time_limit" validate:"gte=0"`
}

// Settings is the validated, resolved configuration. Sessions treat it as
// read-only.
type Settings struct {
	// Schedule holds the delay in minutes applied when a card leaves level i.
	Schedule  []int
	Preset    Preset
	TimeOfDay *TimeOfDay

	ShuffleRatio       float64
	ShuffleWithinLevel bool
	RetestFailedCards  bool
	FrontAmount        int
	BackAmount         int
	BatchSize          int
	TimeLimit          time.Duration
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewSettings validates cfg and fills the schedule table from its preset.
func NewSettings(cfg Config) (*Settings, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}

	levels := cfg.Levels
	base := cfg.BaseMinutes
	if base == 0 {
		base = DefaultBaseMinutes
	}

	var table []int
	switch cfg.Preset {
	case PresetConst, PresetLinear:
		if levels == 0 {
			levels = DefaultLevels
		}
		table = make([]int, levels)
		for i := range table {
			if cfg.Preset == PresetConst {
				table[i] = base
			} else {
				table[i] = base * (i + 1)
			}
		}
	case PresetCustom:
		if levels == 0 {
			levels = len(cfg.Schedule)
		}
		if len(cfg.Schedule) == 0 || len(cfg.Schedule) != levels {
			return nil, fmt.Errorf("%w: got %d entries for %d levels", ErrScheduleLength, len(cfg.Schedule), levels)
		}
		table = append([]int(nil), cfg.Schedule...)
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidPreset, cfg.Preset)
	}

	front, back := cfg.FrontAmount, cfg.BackAmount
	if front == 0 && back == 0 {
		front = 1
	}

	return &Settings{
		Schedule:           table,
		Preset:             cfg.Preset,
		TimeOfDay:          cfg.TimeOfDay,
		ShuffleRatio:       cfg.ShuffleRatio,
		ShuffleWithinLevel: cfg.ShuffleWithinLevel,
		RetestFailedCards:  cfg.RetestFailedCards,
		FrontAmount:        front,
		BackAmount:         back,
		BatchSize:          cfg.BatchSize,
		TimeLimit:          cfg.TimeLimit,
	}, nil
}

// Default returns the settings for an empty Config.
func Default() *Settings {
	s, err := NewSettings(Config{})
	if err != nil {
		panic(err)
	}
	return s
}

// MaxLevel returns the highest schedule index.
func (s *Settings) MaxLevel() int {
	return len(s.Schedule) - 1
}

// Index maps a card level to its schedule entry. Cards above the table use
// the last entry.
func (s *Settings) Index(level int) int {
	return min(max(level, 0), s.MaxLevel())
}

// Interval returns the delay applied when a card leaves level.
func (s *Settings) Interval(level int) time.Duration {
	return time.Duration(s.Schedule[s.Index(level)]) * time.Minute
}

// Config converts s back to its file form.
func (s *Settings) Config() Config {
	cfg := Config{
		Preset:             s.Preset,
		Levels:             len(s.Schedule),
		TimeOfDay:          s.TimeOfDay,
		ShuffleRatio:       s.ShuffleRatio,
		ShuffleWithinLevel: s.ShuffleWithinLevel,
		RetestFailedCards:  s.RetestFailedCards,
		FrontAmount:        s.FrontAmount,
		BackAmount:         s.BackAmount,
		BatchSize:          s.BatchSize,
		TimeLimit:          s.TimeLimit,
	}
	switch s.Preset {
	case PresetCustom:
		cfg.Schedule = append([]int(nil), s.Schedule...)
	default:
		if len(s.Schedule) > 0 {
			cfg.BaseMinutes = s.Schedule[0]
		}
	}
	return cfg
}
