package portal

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/MorganPeterson/cyclingportal/internal/model"
	"github.com/MorganPeterson/cyclingportal/internal/timing"
)

// RegisterRiderResultsInStage records a rider's checkpoint clocks for a stage
// whose preparation has been concluded. checkpoints holds the start, one
// clock per segment in location order, and the finish.
func (p *Portal) RegisterRiderResultsInStage(stageID, riderID int, checkpoints ...time.Time) error {
	rider, err := p.rider(riderID)
	if err != nil {
		return err
	}
	st, err := p.stage(stageID)
	if err != nil {
		return err
	}
	if st.State != model.WaitingForResults {
		return fmt.Errorf("%w: stage %d is still in preparation", ErrInvalidStageState, stageID)
	}
	if _, ok := p.result(st, riderID); ok {
		return fmt.Errorf("%w: rider %d already has a result in stage %d", ErrDuplicateResult, riderID, stageID)
	}
	if want := len(st.SegmentIDs) + 2; len(checkpoints) != want {
		return fmt.Errorf("%w: got %d checkpoints, stage %d needs %d",
			ErrInvalidCheckpoints, len(checkpoints), stageID, want)
	}

	res := p.store.Results.Insert(func(id int) *model.Result {
		return timing.NewResult(id, riderID, stageID, checkpoints)
	})
	st.ResultIDs = append(st.ResultIDs, res.ID)
	rider.ResultIDs = append(rider.ResultIDs, res.ID)

	p.log.Debug("result registered",
		zap.Int("stageId", stageID),
		zap.Int("riderId", riderID),
		zap.Duration("elapsed", res.ElapsedTime))
	return nil
}

// result finds the rider's result in the stage.
func (p *Portal) result(st *model.Stage, riderID int) (*model.Result, bool) {
	for _, id := range st.ResultIDs {
		if res, ok := p.store.Results.Get(id); ok && res.RiderID == riderID {
			return res, true
		}
	}
	return nil, false
}

func (p *Portal) stageAndRider(stageID, riderID int) (*model.Stage, error) {
	st, err := p.stage(stageID)
	if err != nil {
		return nil, err
	}
	if _, err := p.rider(riderID); err != nil {
		return nil, err
	}
	return st, nil
}

// RiderResultsInStage returns the clock at which the rider passed each
// segment followed by the elapsed stage time. Both are empty when the rider
// has no result in the stage.
func (p *Portal) RiderResultsInStage(stageID, riderID int) ([]time.Time, time.Duration, error) {
	st, err := p.stageAndRider(stageID, riderID)
	if err != nil {
		return nil, 0, err
	}
	res, ok := p.result(st, riderID)
	if !ok {
		return nil, 0, nil
	}
	clocks, elapsed := timing.Checkpoints(res)
	return clocks, elapsed, nil
}

// RiderAdjustedElapsedTimeInStage returns the rider's bunched stage time.
// found is false when the rider has no result in the stage.
func (p *Portal) RiderAdjustedElapsedTimeInStage(stageID, riderID int) (adjusted time.Duration, found bool, err error) {
	st, err := p.stageAndRider(stageID, riderID)
	if err != nil {
		return 0, false, err
	}
	for _, res := range p.engine.AdjustStage(st) {
		if res.RiderID == riderID {
			return res.AdjustedTime, true, nil
		}
	}
	return 0, false, nil
}

// DeleteRiderResultsInStage removes the rider's result in the stage, if any.
func (p *Portal) DeleteRiderResultsInStage(stageID, riderID int) error {
	st, err := p.stageAndRider(stageID, riderID)
	if err != nil {
		return err
	}
	if res, ok := p.result(st, riderID); ok {
		p.deleteResult(res)
	}
	return nil
}
