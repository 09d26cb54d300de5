package configuration

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/MorganPeterson/cyclingportal/internal/model"
)

// RaceDescription represents the structure of a race description TOML file.
type RaceDescription struct {
	Race Race `toml:"race"`
}

// Race mirrors the [race] table in the TOML.
type Race struct {
	Name        string  `toml:"name"        json:"name"`
	Description string  `toml:"description" json:"description"`
	Stages      []Stage `toml:"stages"      json:"stages"`
}

// Stage mirrors one [[race.stages]] entry.
type Stage struct {
	Name        string          `toml:"name"        json:"name"`
	Description string          `toml:"description" json:"description"`
	Length      float64         `toml:"length"      json:"length"` // km
	Start       time.Time       `toml:"start"       json:"start"`
	Type        model.StageType `toml:"type"        json:"type"` // FLAT, MEDIUM_MOUNTAIN, HIGH_MOUNTAIN, TT
	Conclude    bool            `toml:"conclude"    json:"conclude"`
	Segments    []Segment       `toml:"segments"    json:"segments"`
}

// Segment mirrors one [[race.stages.segments]] entry. Gradient and Length
// only apply to climbs.
type Segment struct {
	Type     model.SegmentType `toml:"type"     json:"type"` // SPRINT, C4 … HC
	Location float64           `toml:"location" json:"location"`
	Gradient float64           `toml:"gradient" json:"gradient"`
	Length   float64           `toml:"length"   json:"length"`
}

// Validate performs basic semantic checks. Name, length and location rules
// are left to the portal so that imports fail the same way as direct calls.
func (d *RaceDescription) Validate() error {
	r := d.Race

	if strings.TrimSpace(r.Name) == "" {
		return errors.New("race.name must be set")
	}
	for i, st := range r.Stages {
		if st.Start.IsZero() {
			return fmt.Errorf("race.stages[%d].start must be set", i)
		}
		if st.Type == model.TT && len(st.Segments) > 0 {
			return fmt.Errorf("race.stages[%d]: time-trial stages cannot have segments", i)
		}
		for j, seg := range st.Segments {
			if seg.Type != model.SPRINT && seg.Length < 0 {
				return fmt.Errorf("race.stages[%d].segments[%d].length must be >= 0 (got %f)", i, j, seg.Length)
			}
		}
	}
	return nil
}

// DecodeRace decodes a TOML race description from an io.Reader,
// fails on unknown keys, and validates the result.
func DecodeRace(r io.Reader) (*RaceDescription, error) {
	var desc RaceDescription
	md, err := toml.NewDecoder(r).Decode(&desc)
	if err != nil {
		return nil, fmt.Errorf("parsing race file: %w", err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return nil, fmt.Errorf("unknown race key(s): %v", undec)
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	return &desc, nil
}

// LoadRace reads the TOML file at path and decodes it via DecodeRace.
func LoadRace(path string) (*RaceDescription, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("race file not found: %w", err)
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open race file: %w", err)
	}
	defer f.Close()
	return DecodeRace(f)
}
