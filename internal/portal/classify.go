package portal

import (
	"time"

	"github.com/samber/lo"

	"github.com/MorganPeterson/cyclingportal/internal/classification"
	"github.com/MorganPeterson/cyclingportal/internal/model"
)

// RidersRankInStage returns rider IDs ordered by elapsed stage time.
func (p *Portal) RidersRankInStage(stageID int) ([]int, error) {
	st, err := p.stage(stageID)
	if err != nil {
		return nil, err
	}
	return resultRiders(p.engine.RankStage(st)), nil
}

// RankedAdjustedElapsedTimesInStage returns adjusted times in stage rank
// order.
func (p *Portal) RankedAdjustedElapsedTimesInStage(stageID int) ([]time.Duration, error) {
	st, err := p.stage(stageID)
	if err != nil {
		return nil, err
	}
	return lo.Map(p.engine.AdjustStage(st), func(r *model.Result, _ int) time.Duration {
		return r.AdjustedTime
	}), nil
}

// RidersPointsInStage returns stage points, sprints included, in stage rank
// order.
func (p *Portal) RidersPointsInStage(stageID int) ([]int, error) {
	st, err := p.stage(stageID)
	if err != nil {
		return nil, err
	}
	return lo.Map(p.engine.AwardStagePoints(st), func(r *model.Result, _ int) int {
		return r.Points
	}), nil
}

// RidersMountainPointsInStage returns mountain points in stage rank order.
func (p *Portal) RidersMountainPointsInStage(stageID int) ([]int, error) {
	st, err := p.stage(stageID)
	if err != nil {
		return nil, err
	}
	return lo.Map(p.engine.AwardMountainPoints(st), func(r *model.Result, _ int) int {
		return r.MountainPoints
	}), nil
}

// RidersGeneralClassificationRank returns rider IDs ordered by total adjusted
// time over the race.
func (p *Portal) RidersGeneralClassificationRank(raceID int) ([]int, error) {
	ranked, err := p.classify(raceID, classification.AdjustedTime, classification.AdjustedTime)
	if err != nil {
		return nil, err
	}
	return riderIDs(ranked), nil
}

// GeneralClassificationTimesInRace returns the total adjusted times in
// general classification order.
func (p *Portal) GeneralClassificationTimesInRace(raceID int) ([]time.Duration, error) {
	ranked, err := p.classify(raceID, classification.AdjustedTime, classification.AdjustedTime)
	if err != nil {
		return nil, err
	}
	return lo.Map(ranked, func(r *model.Rider, _ int) time.Duration {
		return r.Totals.AdjustedTime
	}), nil
}

// RidersPointsInRace returns each rider's race points ordered by total
// elapsed time.
func (p *Portal) RidersPointsInRace(raceID int) ([]int, error) {
	ranked, err := p.classify(raceID, classification.Points, classification.ElapsedTime)
	if err != nil {
		return nil, err
	}
	return lo.Map(ranked, func(r *model.Rider, _ int) int { return r.Totals.Points }), nil
}

// RidersPointClassificationRank returns rider IDs ordered by race points,
// most points first.
func (p *Portal) RidersPointClassificationRank(raceID int) ([]int, error) {
	ranked, err := p.classify(raceID, classification.Points, classification.Points)
	if err != nil {
		return nil, err
	}
	return riderIDs(ranked), nil
}

// RidersMountainPointsInRace returns each rider's race mountain points
// ordered by total elapsed time.
func (p *Portal) RidersMountainPointsInRace(raceID int) ([]int, error) {
	ranked, err := p.classify(raceID, classification.MountainPoints, classification.ElapsedTime)
	if err != nil {
		return nil, err
	}
	return lo.Map(ranked, func(r *model.Rider, _ int) int { return r.Totals.MountainPoints }), nil
}

// RidersMountainPointClassificationRank returns rider IDs ordered by race
// mountain points, most points first.
func (p *Portal) RidersMountainPointClassificationRank(raceID int) ([]int, error) {
	ranked, err := p.classify(raceID, classification.MountainPoints, classification.MountainPoints)
	if err != nil {
		return nil, err
	}
	return riderIDs(ranked), nil
}

// Standing is one rider's line in a race classification.
type Standing struct {
	RiderID        int
	RiderName      string
	TeamName       string
	ElapsedTime    time.Duration
	AdjustedTime   time.Duration
	Points         int
	MountainPoints int
}

// Classification returns the full standings for metric in rank order. Only
// the totals rebuilt for metric are filled in.
func (p *Portal) Classification(raceID int, metric classification.Metric) ([]Standing, error) {
	ranked, err := p.classify(raceID, metric, metric)
	if err != nil {
		return nil, err
	}
	return lo.Map(ranked, func(r *model.Rider, _ int) Standing {
		s := Standing{RiderID: r.ID, RiderName: r.Name}
		switch metric {
		case classification.AdjustedTime:
			s.AdjustedTime = r.Totals.AdjustedTime
		case classification.Points:
			s.ElapsedTime = r.Totals.ElapsedTime
			s.Points = r.Totals.Points
		case classification.MountainPoints:
			s.ElapsedTime = r.Totals.ElapsedTime
			s.MountainPoints = r.Totals.MountainPoints
		default:
			s.ElapsedTime = r.Totals.ElapsedTime
		}
		if team, ok := p.store.Teams.Get(r.TeamID); ok {
			s.TeamName = team.Name
		}
		return s
	}), nil
}

// classify rebuilds the race totals for metric and ranks the riders by order.
func (p *Portal) classify(raceID int, metric, order classification.Metric) ([]*model.Rider, error) {
	race, err := p.race(raceID)
	if err != nil {
		return nil, err
	}
	riders := p.engine.RaceTotals(race, metric)
	return classification.Rank(riders, order), nil
}

func resultRiders(results []*model.Result) []int {
	return lo.Map(results, func(r *model.Result, _ int) int { return r.RiderID })
}

func riderIDs(riders []*model.Rider) []int {
	return lo.Map(riders, func(r *model.Rider, _ int) int { return r.ID })
}
