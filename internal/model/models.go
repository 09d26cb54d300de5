package model

import (
	"slices"
	"time"
)

// Team owns an ordered list of riders.
type Team struct {
	ID          int
	Name        string
	Description string
	RiderIDs    []int
}

// Totals holds a rider's race scoped sums. They are rebuilt from the stage
// results on every classification query.
type Totals struct {
	ElapsedTime    time.Duration
	AdjustedTime   time.Duration
	Points         int
	MountainPoints int
}

type Rider struct {
	ID          int
	TeamID      int
	Name        string
	YearOfBirth int
	ResultIDs   []int
	Totals      Totals
}

// Race keeps its stages ordered by start time.
type Race struct {
	ID          int
	Name        string
	Description string
	StageIDs    []int
}

// Stage keeps its segments ordered by location and its results in the order
// they were registered.
type Stage struct {
	ID          int
	RaceID      int
	Name        string
	Description string
	Length      float64 // kilometers
	StartTime   time.Time
	Type        StageType
	State       StageState
	SegmentIDs  []int
	ResultIDs   []int
}

// Climb carries the cosmetic details of a categorized climb.
type Climb struct {
	AverageGradient float64
	Length          float64
}

// Segment is an intermediate sprint or, when Climb is set, a categorized climb.
type Segment struct {
	ID       int
	StageID  int
	Location float64 // km mark within the stage
	Type     SegmentType
	Climb    *Climb
}

// Result is one rider's timing in one stage.
type Result struct {
	ID             int
	RiderID        int
	StageID        int
	StartTime      time.Time
	ElapsedTime    time.Duration
	SegmentTimes   []time.Duration // split from the start, one per segment
	AdjustedTime   time.Duration
	Points         int
	MountainPoints int
}

// Clone helpers return copies that share no slices with the original.

func (t Team) Clone() Team {
	t.RiderIDs = slices.Clone(t.RiderIDs)
	return t
}

func (r Rider) Clone() Rider {
	r.ResultIDs = slices.Clone(r.ResultIDs)
	return r
}

func (r Race) Clone() Race {
	r.StageIDs = slices.Clone(r.StageIDs)
	return r
}

func (s Stage) Clone() Stage {
	s.SegmentIDs = slices.Clone(s.SegmentIDs)
	s.ResultIDs = slices.Clone(s.ResultIDs)
	return s
}

func (s Segment) Clone() Segment {
	if s.Climb != nil {
		c := *s.Climb
		s.Climb = &c
	}
	return s
}

func (r Result) Clone() Result {
	r.SegmentTimes = slices.Clone(r.SegmentTimes)
	return r
}
