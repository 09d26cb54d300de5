package model

import (
	"fmt"
	"strings"
)

// StageType decides which stage points table a stage is scored with.
type StageType int

const (
	FLAT StageType = iota
	MEDIUM_MOUNTAIN
	HIGH_MOUNTAIN
	TT
)

var stageTypeNames = map[StageType]string{
	FLAT:            "FLAT",
	MEDIUM_MOUNTAIN: "MEDIUM_MOUNTAIN",
	HIGH_MOUNTAIN:   "HIGH_MOUNTAIN",
	TT:              "TT",
}

func (t StageType) String() string {
	if s, ok := stageTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("StageType(%d)", int(t))
}

// MarshalText lets stage types round trip through TOML and JSON by name.
func (t StageType) MarshalText() ([]byte, error) {
	if _, ok := stageTypeNames[t]; !ok {
		return nil, fmt.Errorf("unknown stage type %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *StageType) UnmarshalText(b []byte) error {
	v, err := ParseStageType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParseStageType accepts the upper case names, case insensitive.
func ParseStageType(s string) (StageType, error) {
	want := strings.ToUpper(strings.TrimSpace(s))
	for k, v := range stageTypeNames {
		if v == want {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown stage type %q", s)
}

// SegmentType is the kind of an intermediate sprint or categorized climb.
type SegmentType int

const (
	SPRINT SegmentType = iota
	C4
	C3
	C2
	C1
	HC
)

var segmentTypeNames = map[SegmentType]string{
	SPRINT: "SPRINT",
	C4:     "C4",
	C3:     "C3",
	C2:     "C2",
	C1:     "C1",
	HC:     "HC",
}

func (t SegmentType) String() string {
	if s, ok := segmentTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("SegmentType(%d)", int(t))
}

func (t SegmentType) MarshalText() ([]byte, error) {
	if _, ok := segmentTypeNames[t]; !ok {
		return nil, fmt.Errorf("unknown segment type %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *SegmentType) UnmarshalText(b []byte) error {
	v, err := ParseSegmentType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func ParseSegmentType(s string) (SegmentType, error) {
	want := strings.ToUpper(strings.TrimSpace(s))
	for k, v := range segmentTypeNames {
		if v == want {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown segment type %q", s)
}

// IsClimb reports whether the segment is scored in the mountain classification.
func (t SegmentType) IsClimb() bool {
	return t != SPRINT
}

// StageState is one way: InPreparation -> WaitingForResults.
type StageState int

const (
	InPreparation StageState = iota
	WaitingForResults
)

func (s StageState) String() string {
	switch s {
	case InPreparation:
		return "in preparation"
	case WaitingForResults:
		return "waiting for results"
	default:
		return fmt.Sprintf("StageState(%d)", int(s))
	}
}
