// Package timing turns checkpoint clocks into stage durations and computes
// bunched finish times.
package timing

import (
	"cmp"
	"slices"
	"time"

	"github.com/MorganPeterson/cyclingportal/internal/model"
)

// BunchGap is the largest gap, exclusive, to the rider ahead that still
// gives a rider the same adjusted time.
const BunchGap = time.Second

// NewResult builds a stage result from checkpoints laid out as start, one
// clock per segment, finish. The caller checks len(checkpoints) >= 2.
func NewResult(id, riderID, stageID int, checkpoints []time.Time) *model.Result {
	start := checkpoints[0]
	last := len(checkpoints) - 1

	splits := make([]time.Duration, 0, last-1)
	for _, cp := range checkpoints[1:last] {
		splits = append(splits, cp.Sub(start))
	}

	return &model.Result{
		ID:           id,
		RiderID:      riderID,
		StageID:      stageID,
		StartTime:    start,
		ElapsedTime:  checkpoints[last].Sub(start),
		SegmentTimes: splits,
	}
}

// SortByElapsed returns a copy of results ordered by elapsed time. Equal
// times keep their relative order.
func SortByElapsed(results []*model.Result) []*model.Result {
	sorted := slices.Clone(results)
	slices.SortStableFunc(sorted, func(a, b *model.Result) int {
		return cmp.Compare(a.ElapsedTime, b.ElapsedTime)
	})
	return sorted
}

// SortBySegment returns a copy of results ordered by their split at segment
// index idx.
func SortBySegment(results []*model.Result, idx int) []*model.Result {
	sorted := slices.Clone(results)
	slices.SortStableFunc(sorted, func(a, b *model.Result) int {
		return cmp.Compare(a.SegmentTimes[idx], b.SegmentTimes[idx])
	})
	return sorted
}

// AdjustTimes sets AdjustedTime on every result and returns them ordered by
// elapsed time. A rider finishing less than BunchGap behind the rider ahead
// takes that rider's adjusted time, so a chain of close finishers collapses
// onto the time of the first rider in the chain.
func AdjustTimes(results []*model.Result) []*model.Result {
	sorted := SortByElapsed(results)
	for i, r := range sorted {
		if i == 0 {
			r.AdjustedTime = r.ElapsedTime
			continue
		}
		prev := sorted[i-1]
		if r.ElapsedTime-prev.ElapsedTime < BunchGap {
			r.AdjustedTime = prev.AdjustedTime
		} else {
			r.AdjustedTime = r.ElapsedTime
		}
	}
	return sorted
}

// Checkpoints rebuilds the clock at which the rider passed each segment and
// returns it together with the elapsed stage time.
func Checkpoints(r *model.Result) ([]time.Time, time.Duration) {
	clocks := make([]time.Time, 0, len(r.SegmentTimes))
	for _, split := range r.SegmentTimes {
		clocks = append(clocks, r.StartTime.Add(split))
	}
	return clocks, r.ElapsedTime
}
