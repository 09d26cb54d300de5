package portal

import (
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/MorganPeterson/cyclingportal/internal/model"
)

// The delete helpers below assume the entity was looked up by the caller.
// They always run to completion and remove the entity from every list that
// references it, children first.

func (p *Portal) deleteRace(race *model.Race) {
	for _, id := range race.StageIDs {
		if st, ok := p.store.Stages.Get(id); ok {
			p.deleteStageOnly(st)
		}
	}
	p.store.Races.Delete(race.ID)
	p.log.Debug("race removed", zap.Int("raceId", race.ID), zap.Int("stages", len(race.StageIDs)))
}

// deleteStage removes the stage and detaches it from its race.
func (p *Portal) deleteStage(stage *model.Stage) {
	p.deleteStageOnly(stage)
	if race, ok := p.store.Races.Get(stage.RaceID); ok {
		race.StageIDs = lo.Without(race.StageIDs, stage.ID)
	}
}

// deleteStageOnly removes the stage, its segments and its results but leaves
// the owning race's list alone.
func (p *Portal) deleteStageOnly(stage *model.Stage) {
	for _, id := range stage.ResultIDs {
		if res, ok := p.store.Results.Get(id); ok {
			p.detachResultFromRider(res)
			p.store.Results.Delete(id)
		}
	}
	for _, id := range stage.SegmentIDs {
		p.store.Segments.Delete(id)
	}
	p.store.Stages.Delete(stage.ID)
	p.log.Debug("stage removed",
		zap.Int("stageId", stage.ID),
		zap.Int("segments", len(stage.SegmentIDs)),
		zap.Int("results", len(stage.ResultIDs)))
}

func (p *Portal) deleteSegment(seg *model.Segment) {
	if st, ok := p.store.Stages.Get(seg.StageID); ok {
		st.SegmentIDs = lo.Without(st.SegmentIDs, seg.ID)
	}
	p.store.Segments.Delete(seg.ID)
	p.log.Debug("segment removed", zap.Int("segmentId", seg.ID), zap.Int("stageId", seg.StageID))
}

func (p *Portal) deleteTeam(team *model.Team) {
	for _, id := range team.RiderIDs {
		if r, ok := p.store.Riders.Get(id); ok {
			p.deleteRiderOnly(r)
		}
	}
	p.store.Teams.Delete(team.ID)
	p.log.Debug("team removed", zap.Int("teamId", team.ID), zap.Int("riders", len(team.RiderIDs)))
}

// deleteRider removes the rider and detaches it from its team.
func (p *Portal) deleteRider(rider *model.Rider) {
	p.deleteRiderOnly(rider)
	if team, ok := p.store.Teams.Get(rider.TeamID); ok {
		team.RiderIDs = lo.Without(team.RiderIDs, rider.ID)
	}
}

func (p *Portal) deleteRiderOnly(rider *model.Rider) {
	for _, id := range rider.ResultIDs {
		if res, ok := p.store.Results.Get(id); ok {
			p.detachResultFromStage(res)
			p.store.Results.Delete(id)
		}
	}
	p.store.Riders.Delete(rider.ID)
	p.log.Debug("rider removed", zap.Int("riderId", rider.ID), zap.Int("results", len(rider.ResultIDs)))
}

func (p *Portal) deleteResult(res *model.Result) {
	p.detachResultFromStage(res)
	p.detachResultFromRider(res)
	p.store.Results.Delete(res.ID)
	p.log.Debug("result removed",
		zap.Int("resultId", res.ID), zap.Int("stageId", res.StageID), zap.Int("riderId", res.RiderID))
}

func (p *Portal) detachResultFromStage(res *model.Result) {
	if st, ok := p.store.Stages.Get(res.StageID); ok {
		st.ResultIDs = lo.Without(st.ResultIDs, res.ID)
	}
}

func (p *Portal) detachResultFromRider(res *model.Result) {
	if r, ok := p.store.Riders.Get(res.RiderID); ok {
		r.ResultIDs = lo.Without(r.ResultIDs, res.ID)
	}
}
