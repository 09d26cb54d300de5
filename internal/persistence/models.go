package persistence

import (
	"fmt"
	"time"

	"github.com/MorganPeterson/cyclingportal/internal/model"
	"github.com/MorganPeterson/cyclingportal/internal/store"
)

// Every row carries Seq, its position in the store's insertion order, so a
// load restores the exact ordering. ID lists keep their order as JSON.

// counterRow represents the last issued ID of one entity kind in the table
// counters.
type counterRow struct {
	Kind string `gorm:"primaryKey;size:16"`
	Last int    `gorm:"not null"`
}

func (counterRow) TableName() string { return "counters" }

// teamRow represents a team in the table teams.
type teamRow struct {
	ID          int    `gorm:"primaryKey;autoIncrement:false"`
	Seq         int    `gorm:"not null;index"`
	Name        string `gorm:"size:255;not null"`
	Description string
	RiderIDs    []int `gorm:"serializer:json"`
}

func (teamRow) TableName() string { return "teams" }

// riderRow represents a rider in the table riders, race totals included.
type riderRow struct {
	ID             int    `gorm:"primaryKey;autoIncrement:false"`
	Seq            int    `gorm:"not null;index"`
	TeamID         int    `gorm:"not null;index"`
	Name           string `gorm:"size:255;not null"`
	YearOfBirth    int    `gorm:"not null"`
	ResultIDs      []int  `gorm:"serializer:json"`
	ElapsedTime    time.Duration
	AdjustedTime   time.Duration
	Points         int
	MountainPoints int
}

func (riderRow) TableName() string { return "riders" }

type raceRow struct {
	ID          int    `gorm:"primaryKey;autoIncrement:false"`
	Seq         int    `gorm:"not null;index"`
	Name        string `gorm:"size:255;not null"`
	Description string
	StageIDs    []int `gorm:"serializer:json"`
}

func (raceRow) TableName() string { return "races" }

type stageRow struct {
	ID          int    `gorm:"primaryKey;autoIncrement:false"`
	Seq         int    `gorm:"not null;index"`
	RaceID      int    `gorm:"not null;index"`
	Name        string `gorm:"size:255;not null"`
	Description string
	Length      float64   `gorm:"not null"`
	StartTime   time.Time `gorm:"not null"`
	Type        string    `gorm:"size:32;not null"` // FLAT, TT, …
	State       int       `gorm:"not null"`
	SegmentIDs  []int     `gorm:"serializer:json"`
	ResultIDs   []int     `gorm:"serializer:json"`
}

func (stageRow) TableName() string { return "stages" }

// segmentRow flattens the optional climb details into nullable columns.
type segmentRow struct {
	ID              int      `gorm:"primaryKey;autoIncrement:false"`
	Seq             int      `gorm:"not null;index"`
	StageID         int      `gorm:"not null;index"`
	Location        float64  `gorm:"not null"`
	Type            string   `gorm:"size:16;not null"` // SPRINT, C4 … HC
	AverageGradient *float64 // nil for sprints
	ClimbLength     *float64
}

func (segmentRow) TableName() string { return "segments" }

type resultRow struct {
	ID             int             `gorm:"primaryKey;autoIncrement:false"`
	Seq            int             `gorm:"not null;index"`
	RiderID        int             `gorm:"not null;index"`
	StageID        int             `gorm:"not null;index"`
	StartTime      time.Time       `gorm:"not null"`
	ElapsedTime    time.Duration   `gorm:"not null"`
	SegmentTimes   []time.Duration `gorm:"serializer:json"`
	AdjustedTime   time.Duration
	Points         int
	MountainPoints int
}

func (resultRow) TableName() string { return "results" }

func counterRows(c store.Counters) []counterRow {
	return []counterRow{
		{Kind: "team", Last: c.Team},
		{Kind: "rider", Last: c.Rider},
		{Kind: "race", Last: c.Race},
		{Kind: "stage", Last: c.Stage},
		{Kind: "segment", Last: c.Segment},
		{Kind: "result", Last: c.Result},
	}
}

func countersFrom(rows []counterRow) store.Counters {
	var c store.Counters
	for _, r := range rows {
		switch r.Kind {
		case "team":
			c.Team = r.Last
		case "rider":
			c.Rider = r.Last
		case "race":
			c.Race = r.Last
		case "stage":
			c.Stage = r.Last
		case "segment":
			c.Segment = r.Last
		case "result":
			c.Result = r.Last
		}
	}
	return c
}

func fromTeam(seq int, t model.Team) teamRow {
	return teamRow{ID: t.ID, Seq: seq, Name: t.Name, Description: t.Description, RiderIDs: t.RiderIDs}
}

func (r teamRow) model() model.Team {
	return model.Team{ID: r.ID, Name: r.Name, Description: r.Description, RiderIDs: r.RiderIDs}
}

func fromRider(seq int, r model.Rider) riderRow {
	return riderRow{
		ID:             r.ID,
		Seq:            seq,
		TeamID:         r.TeamID,
		Name:           r.Name,
		YearOfBirth:    r.YearOfBirth,
		ResultIDs:      r.ResultIDs,
		ElapsedTime:    r.Totals.ElapsedTime,
		AdjustedTime:   r.Totals.AdjustedTime,
		Points:         r.Totals.Points,
		MountainPoints: r.Totals.MountainPoints,
	}
}

func (r riderRow) model() model.Rider {
	return model.Rider{
		ID:          r.ID,
		TeamID:      r.TeamID,
		Name:        r.Name,
		YearOfBirth: r.YearOfBirth,
		ResultIDs:   r.ResultIDs,
		Totals: model.Totals{
			ElapsedTime:    r.ElapsedTime,
			AdjustedTime:   r.AdjustedTime,
			Points:         r.Points,
			MountainPoints: r.MountainPoints,
		},
	}
}

func fromRace(seq int, r model.Race) raceRow {
	return raceRow{ID: r.ID, Seq: seq, Name: r.Name, Description: r.Description, StageIDs: r.StageIDs}
}

func (r raceRow) model() model.Race {
	return model.Race{ID: r.ID, Name: r.Name, Description: r.Description, StageIDs: r.StageIDs}
}

func fromStage(seq int, s model.Stage) stageRow {
	return stageRow{
		ID:          s.ID,
		Seq:         seq,
		RaceID:      s.RaceID,
		Name:        s.Name,
		Description: s.Description,
		Length:      s.Length,
		StartTime:   s.StartTime,
		Type:        s.Type.String(),
		State:       int(s.State),
		SegmentIDs:  s.SegmentIDs,
		ResultIDs:   s.ResultIDs,
	}
}

func (r stageRow) model() (model.Stage, error) {
	st, err := model.ParseStageType(r.Type)
	if err != nil {
		return model.Stage{}, err
	}
	state := model.StageState(r.State)
	if state != model.InPreparation && state != model.WaitingForResults {
		return model.Stage{}, fmt.Errorf("unknown stage state %d", r.State)
	}
	return model.Stage{
		ID:          r.ID,
		RaceID:      r.RaceID,
		Name:        r.Name,
		Description: r.Description,
		Length:      r.Length,
		StartTime:   r.StartTime,
		Type:        st,
		State:       state,
		SegmentIDs:  r.SegmentIDs,
		ResultIDs:   r.ResultIDs,
	}, nil
}

func fromSegment(seq int, s model.Segment) segmentRow {
	row := segmentRow{ID: s.ID, Seq: seq, StageID: s.StageID, Location: s.Location, Type: s.Type.String()}
	if s.Climb != nil {
		gradient, length := s.Climb.AverageGradient, s.Climb.Length
		row.AverageGradient, row.ClimbLength = &gradient, &length
	}
	return row
}

func (r segmentRow) model() (model.Segment, error) {
	st, err := model.ParseSegmentType(r.Type)
	if err != nil {
		return model.Segment{}, err
	}
	seg := model.Segment{ID: r.ID, StageID: r.StageID, Location: r.Location, Type: st}
	if r.AverageGradient != nil || r.ClimbLength != nil {
		seg.Climb = &model.Climb{}
		if r.AverageGradient != nil {
			seg.Climb.AverageGradient = *r.AverageGradient
		}
		if r.ClimbLength != nil {
			seg.Climb.Length = *r.ClimbLength
		}
	}
	return seg, nil
}

func fromResult(seq int, r model.Result) resultRow {
	return resultRow{
		ID:             r.ID,
		Seq:            seq,
		RiderID:        r.RiderID,
		StageID:        r.StageID,
		StartTime:      r.StartTime,
		ElapsedTime:    r.ElapsedTime,
		SegmentTimes:   r.SegmentTimes,
		AdjustedTime:   r.AdjustedTime,
		Points:         r.Points,
		MountainPoints: r.MountainPoints,
	}
}

func (r resultRow) model() model.Result {
	return model.Result{
		ID:             r.ID,
		RiderID:        r.RiderID,
		StageID:        r.StageID,
		StartTime:      r.StartTime,
		ElapsedTime:    r.ElapsedTime,
		SegmentTimes:   r.SegmentTimes,
		AdjustedTime:   r.AdjustedTime,
		Points:         r.Points,
		MountainPoints: r.MountainPoints,
	}
}
