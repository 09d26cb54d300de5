package classification

import (
	"maps"
	"slices"

	"github.com/MorganPeterson/cyclingportal/internal/model"
)

// points awarded by finishing position in a stage
var (
	flatStagePoints           = []int{50, 30, 20, 18, 16, 14, 12, 10, 8, 7, 6, 5, 4, 3, 2}
	mediumMountainStagePoints = []int{30, 25, 22, 19, 17, 15, 13, 11, 9, 7, 6, 5, 4, 3, 2}
	highMountainStagePoints   = []int{20, 17, 15, 13, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	timeTrialStagePoints      = []int{20, 17, 15, 13, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
)

// points awarded by passing position at a segment
var (
	sprintPoints = []int{20, 17, 15, 13, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	hcPoints     = []int{20, 15, 12, 10, 8, 6, 4, 2}
	c1Points     = []int{10, 8, 6, 4, 2, 1}
	c2Points     = []int{5, 3, 2, 1}
	c3Points     = []int{2, 1}
	c4Points     = []int{1}
)

// Tables maps stage and segment types to their points by rank, index 0 being
// first place.
type Tables struct {
	Stage   map[model.StageType][]int
	Segment map[model.SegmentType][]int
}

// DefaultTables returns a fresh copy of the standard scoring tables.
func DefaultTables() Tables {
	return Tables{
		Stage: map[model.StageType][]int{
			model.FLAT:            slices.Clone(flatStagePoints),
			model.MEDIUM_MOUNTAIN: slices.Clone(mediumMountainStagePoints),
			model.HIGH_MOUNTAIN:   slices.Clone(highMountainStagePoints),
			model.TT:              slices.Clone(timeTrialStagePoints),
		},
		Segment: map[model.SegmentType][]int{
			model.SPRINT: slices.Clone(sprintPoints),
			model.HC:     slices.Clone(hcPoints),
			model.C1:     slices.Clone(c1Points),
			model.C2:     slices.Clone(c2Points),
			model.C3:     slices.Clone(c3Points),
			model.C4:     slices.Clone(c4Points),
		},
	}
}

// Merge returns t with every table present in override replaced.
func (t Tables) Merge(override Tables) Tables {
	out := Tables{
		Stage:   maps.Clone(t.Stage),
		Segment: maps.Clone(t.Segment),
	}
	for k, v := range override.Stage {
		out.Stage[k] = slices.Clone(v)
	}
	for k, v := range override.Segment {
		out.Segment[k] = slices.Clone(v)
	}
	return out
}

// PointsAt returns the points for a zero based rank. Ranks past the end of
// the table score zero.
func PointsAt(table []int, rank int) int {
	if rank >= 0 && rank < len(table) {
		return table[rank]
	}
	return 0
}

// StagePoints is the table for a stage type, nil when none is configured.
func (t Tables) StagePoints(st model.StageType) []int {
	return t.Stage[st]
}

// SegmentPoints is the table for a segment type, nil when none is configured.
func (t Tables) SegmentPoints(st model.SegmentType) []int {
	return t.Segment[st]
}
