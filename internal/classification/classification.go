// Package classification scores stage results and builds the race wide
// general, points and mountain classifications.
//
// Every call recomputes from the stored results; nothing is cached between
// calls, so repeated queries over unchanged results return equal slices.
package classification

import (
	"cmp"
	"slices"

	"github.com/samber/lo"

	"github.com/MorganPeterson/cyclingportal/internal/model"
	"github.com/MorganPeterson/cyclingportal/internal/store"
	"github.com/MorganPeterson/cyclingportal/internal/timing"
)

// Metric selects the rider total a classification is built on.
type Metric int

const (
	ElapsedTime Metric = iota
	AdjustedTime
	Points
	MountainPoints
)

func (m Metric) String() string {
	switch m {
	case ElapsedTime:
		return "elapsed"
	case AdjustedTime:
		return "general"
	case Points:
		return "points"
	case MountainPoints:
		return "mountain"
	default:
		return "unknown"
	}
}

// Engine reads stages and results from the store it is given and writes the
// derived points and totals back onto them.
type Engine struct {
	store  *store.Store
	tables Tables
}

func NewEngine(s *store.Store, tables Tables) *Engine {
	return &Engine{store: s, tables: tables}
}

// Results returns the stage's results in registration order.
func (e *Engine) Results(stage *model.Stage) []*model.Result {
	out := make([]*model.Result, 0, len(stage.ResultIDs))
	for _, id := range stage.ResultIDs {
		if r, ok := e.store.Results.Get(id); ok {
			out = append(out, r)
		}
	}
	return out
}

// Segments returns the stage's segments ordered by location.
func (e *Engine) Segments(stage *model.Stage) []*model.Segment {
	out := make([]*model.Segment, 0, len(stage.SegmentIDs))
	for _, id := range stage.SegmentIDs {
		if sg, ok := e.store.Segments.Get(id); ok {
			out = append(out, sg)
		}
	}
	return out
}

// RankStage orders the stage's results by elapsed time.
func (e *Engine) RankStage(stage *model.Stage) []*model.Result {
	return timing.SortByElapsed(e.Results(stage))
}

// AdjustStage computes adjusted times for the stage, ordered by elapsed time.
func (e *Engine) AdjustStage(stage *model.Stage) []*model.Result {
	return timing.AdjustTimes(e.Results(stage))
}

// AwardStagePoints resets and recomputes the points of every result in the
// stage: finishing position points by stage type plus, cumulatively, the
// sprint points of every intermediate sprint. Results come back ordered by
// elapsed time.
func (e *Engine) AwardStagePoints(stage *model.Stage) []*model.Result {
	ranked := e.RankStage(stage)
	table := e.tables.StagePoints(stage.Type)
	for i, r := range ranked {
		r.Points = PointsAt(table, i)
	}

	for idx, sg := range e.Segments(stage) {
		if sg.Type != model.SPRINT {
			continue
		}
		e.awardSegment(ranked, idx, sg.Type, func(r *model.Result, pts int) {
			r.Points += pts
		})
	}
	return ranked
}

// AwardMountainPoints resets and recomputes the mountain points of every
// result in the stage from all of its categorized climbs. Results come back
// ordered by elapsed time.
func (e *Engine) AwardMountainPoints(stage *model.Stage) []*model.Result {
	ranked := e.RankStage(stage)
	for _, r := range ranked {
		r.MountainPoints = 0
	}

	for idx, sg := range e.Segments(stage) {
		if !sg.Type.IsClimb() {
			continue
		}
		e.awardSegment(ranked, idx, sg.Type, func(r *model.Result, pts int) {
			r.MountainPoints += pts
		})
	}
	return ranked
}

func (e *Engine) awardSegment(
	results []*model.Result, idx int, st model.SegmentType, add func(*model.Result, int),
) {
	table := e.tables.SegmentPoints(st)
	for i, r := range timing.SortBySegment(results, idx) {
		add(r, PointsAt(table, i))
	}
}

// RaceTotals rebuilds every rider's total for metric over the race's stages,
// walked in start time order, and returns the riders that have a result in
// the race in order of first appearance. Points and mountain totals also
// rebuild the total elapsed time.
//
// The general classification stops at the first stage without results;
// later stages are not classified.
func (e *Engine) RaceTotals(race *model.Race, metric Metric) []*model.Rider {
	for _, r := range e.store.Riders.All() {
		switch metric {
		case AdjustedTime:
			r.Totals.AdjustedTime = 0
		case Points:
			r.Totals.ElapsedTime = 0
			r.Totals.Points = 0
		case MountainPoints:
			r.Totals.ElapsedTime = 0
			r.Totals.MountainPoints = 0
		default:
			r.Totals.ElapsedTime = 0
		}
	}

	var riders []*model.Rider
	for _, stage := range e.raceStages(race) {
		var results []*model.Result
		switch metric {
		case AdjustedTime:
			results = e.AdjustStage(stage)
			if len(results) == 0 {
				return lo.Uniq(riders)
			}
		case Points:
			results = e.AwardStagePoints(stage)
		case MountainPoints:
			results = e.AwardMountainPoints(stage)
		default:
			results = e.RankStage(stage)
		}

		for _, res := range results {
			rider, ok := e.store.Riders.Get(res.RiderID)
			if !ok {
				continue
			}
			switch metric {
			case AdjustedTime:
				rider.Totals.AdjustedTime += res.AdjustedTime
			case Points:
				rider.Totals.ElapsedTime += res.ElapsedTime
				rider.Totals.Points += res.Points
			case MountainPoints:
				rider.Totals.ElapsedTime += res.ElapsedTime
				rider.Totals.MountainPoints += res.MountainPoints
			default:
				rider.Totals.ElapsedTime += res.ElapsedTime
			}
			riders = append(riders, rider)
		}
	}
	return lo.Uniq(riders)
}

func (e *Engine) raceStages(race *model.Race) []*model.Stage {
	out := make([]*model.Stage, 0, len(race.StageIDs))
	for _, id := range race.StageIDs {
		if st, ok := e.store.Stages.Get(id); ok {
			out = append(out, st)
		}
	}
	return out
}

// Rank returns a copy of riders ordered by their total for metric: ascending
// for times, descending for points. Ties keep their input order.
func Rank(riders []*model.Rider, metric Metric) []*model.Rider {
	ranked := slices.Clone(riders)
	slices.SortStableFunc(ranked, func(a, b *model.Rider) int {
		switch metric {
		case AdjustedTime:
			return cmp.Compare(a.Totals.AdjustedTime, b.Totals.AdjustedTime)
		case Points:
			return cmp.Compare(b.Totals.Points, a.Totals.Points)
		case MountainPoints:
			return cmp.Compare(b.Totals.MountainPoints, a.Totals.MountainPoints)
		default:
			return cmp.Compare(a.Totals.ElapsedTime, b.Totals.ElapsedTime)
		}
	})
	return ranked
}
