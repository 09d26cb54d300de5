package classification

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MorganPeterson/cyclingportal/internal/model"
	"github.com/MorganPeterson/cyclingportal/internal/store"
	"github.com/MorganPeterson/cyclingportal/internal/timing"
)

var day = time.Date(2026, 7, 4, 10, 0, 0, 0, time.UTC)

// fixture wires entities straight into a store.
type fixture struct {
	t     *testing.T
	store *store.Store
	team  *model.Team
	race  *model.Race
}

func newFixture(t *testing.T, riders int) *fixture {
	s := store.New()
	f := &fixture{t: t, store: s}
	f.team = s.Teams.Insert(func(id int) *model.Team { return &model.Team{ID: id, Name: "Team"} })
	for i := 0; i < riders; i++ {
		r := s.Riders.Insert(func(id int) *model.Rider {
			return &model.Rider{ID: id, TeamID: f.team.ID, Name: "Rider", YearOfBirth: 1990}
		})
		f.team.RiderIDs = append(f.team.RiderIDs, r.ID)
	}
	f.race = s.Races.Insert(func(id int) *model.Race { return &model.Race{ID: id, Name: "Race"} })
	return f
}

func (f *fixture) stage(st model.StageType, segments ...model.SegmentType) *model.Stage {
	stage := f.store.Stages.Insert(func(id int) *model.Stage {
		return &model.Stage{ID: id, RaceID: f.race.ID, Name: "Stage", Length: 100,
			StartTime: day.AddDate(0, 0, len(f.race.StageIDs)), Type: st, State: model.WaitingForResults}
	})
	f.race.StageIDs = append(f.race.StageIDs, stage.ID)
	for i, typ := range segments {
		seg := f.store.Segments.Insert(func(id int) *model.Segment {
			return &model.Segment{ID: id, StageID: stage.ID, Location: float64(10 * (i + 1)), Type: typ}
		})
		stage.SegmentIDs = append(stage.SegmentIDs, seg.ID)
	}
	return stage
}

// result registers a rider finishing after elapsed and passing the segments
// after splits.
func (f *fixture) result(stage *model.Stage, riderID int, elapsed time.Duration, splits ...time.Duration) {
	require.Len(f.t, splits, len(stage.SegmentIDs))
	start := stage.StartTime
	cps := []time.Time{start}
	for _, s := range splits {
		cps = append(cps, start.Add(s))
	}
	cps = append(cps, start.Add(elapsed))
	res := f.store.Results.Insert(func(id int) *model.Result {
		return timing.NewResult(id, riderID, stage.ID, cps)
	})
	stage.ResultIDs = append(stage.ResultIDs, res.ID)
	rider, _ := f.store.Riders.Get(riderID)
	rider.ResultIDs = append(rider.ResultIDs, res.ID)
}

func (f *fixture) engine() *Engine {
	return NewEngine(f.store, DefaultTables())
}

func riderIDs(rs []*model.Result) []int {
	return lo.Map(rs, func(r *model.Result, _ int) int { return r.RiderID })
}

func points(rs []*model.Result) []int {
	return lo.Map(rs, func(r *model.Result, _ int) int { return r.Points })
}

func mountain(rs []*model.Result) []int {
	return lo.Map(rs, func(r *model.Result, _ int) int { return r.MountainPoints })
}

func TestPointsAt(t *testing.T) {
	assert.Equal(t, 50, PointsAt(flatStagePoints, 0))
	assert.Equal(t, 2, PointsAt(flatStagePoints, 14))
	assert.Equal(t, 0, PointsAt(flatStagePoints, 15))
	assert.Equal(t, 0, PointsAt(nil, 0))
	assert.Equal(t, 0, PointsAt(c4Points, -1))
}

func TestMerge(t *testing.T) {
	base := DefaultTables()
	merged := base.Merge(Tables{Stage: map[model.StageType][]int{model.FLAT: {1, 2}}})
	assert.Equal(t, []int{1, 2}, merged.StagePoints(model.FLAT))
	assert.Equal(t, mediumMountainStagePoints, merged.StagePoints(model.MEDIUM_MOUNTAIN))
	assert.Equal(t, flatStagePoints, base.StagePoints(model.FLAT), "base left alone")
}

func TestAwardStagePointsFlat(t *testing.T) {
	f := newFixture(t, 3)
	st := f.stage(model.FLAT)
	f.result(st, 1, 3*time.Hour+2*time.Second)
	f.result(st, 2, 3*time.Hour)
	f.result(st, 3, 3*time.Hour+10*time.Second)

	got := f.engine().AwardStagePoints(st)
	assert.Equal(t, []int{2, 1, 3}, riderIDs(got))
	assert.Equal(t, []int{50, 30, 20}, points(got))
}

func TestAwardStagePointsPastTable(t *testing.T) {
	f := newFixture(t, 16)
	st := f.stage(model.HIGH_MOUNTAIN)
	for id := 1; id <= 16; id++ {
		f.result(st, id, 4*time.Hour+time.Duration(id)*time.Minute)
	}
	got := points(f.engine().AwardStagePoints(st))
	assert.Equal(t, 20, got[0])
	assert.Equal(t, 1, got[14])
	assert.Equal(t, 0, got[15])
}

func TestSprintPointsAreCumulative(t *testing.T) {
	f := newFixture(t, 2)
	st := f.stage(model.MEDIUM_MOUNTAIN, model.SPRINT, model.SPRINT)
	// rider 2 wins the first sprint, rider 1 the second and the stage
	f.result(st, 1, 2*time.Hour, 21*time.Minute, 40*time.Minute)
	f.result(st, 2, 2*time.Hour+time.Minute, 20*time.Minute, 41*time.Minute)

	got := f.engine().AwardStagePoints(st)
	assert.Equal(t, []int{1, 2}, riderIDs(got))
	assert.Equal(t, []int{30 + 17 + 20, 25 + 20 + 17}, points(got))
}

func TestAwardStagePointsIdempotent(t *testing.T) {
	f := newFixture(t, 2)
	st := f.stage(model.FLAT, model.SPRINT)
	f.result(st, 1, time.Hour, 10*time.Minute)
	f.result(st, 2, time.Hour+time.Minute, 11*time.Minute)

	e := f.engine()
	first := points(e.AwardStagePoints(st))
	second := points(e.AwardStagePoints(st))
	assert.Equal(t, first, second)
	assert.Equal(t, []int{70, 47}, first)
}

func TestMountainPointsHC(t *testing.T) {
	f := newFixture(t, 10)
	st := f.stage(model.HIGH_MOUNTAIN, model.HC)
	for id := 1; id <= 10; id++ {
		d := time.Duration(id) * time.Minute
		f.result(st, id, 5*time.Hour+d, time.Hour+d)
	}
	got := mountain(f.engine().AwardMountainPoints(st))
	assert.Equal(t, []int{20, 15, 12, 10, 8, 6, 4, 2, 0, 0}, got)
}

func TestMountainPointsOrderedByStageRank(t *testing.T) {
	f := newFixture(t, 2)
	st := f.stage(model.HIGH_MOUNTAIN, model.SPRINT, model.C2, model.C4)
	// rider 2 crests both climbs first but finishes second
	f.result(st, 1, 3*time.Hour, 30*time.Minute, 61*time.Minute, 91*time.Minute)
	f.result(st, 2, 3*time.Hour+time.Minute, 31*time.Minute, 60*time.Minute, 90*time.Minute)

	got := f.engine().AwardMountainPoints(st)
	assert.Equal(t, []int{1, 2}, riderIDs(got))
	assert.Equal(t, []int{3, 5 + 1}, mountain(got))
}

func TestRaceTotalsGeneral(t *testing.T) {
	f := newFixture(t, 3)
	s1 := f.stage(model.FLAT)
	f.result(s1, 1, 3*time.Hour)
	f.result(s1, 2, 3*time.Hour+500*time.Millisecond)
	f.result(s1, 3, 3*time.Hour+time.Minute)
	s2 := f.stage(model.TT)
	f.result(s2, 1, 40*time.Minute+30*time.Second)
	f.result(s2, 2, 40*time.Minute)
	f.result(s2, 3, 41*time.Minute)

	e := f.engine()
	ranked := Rank(e.RaceTotals(f.race, AdjustedTime), AdjustedTime)
	require.Len(t, ranked, 3)
	assert.Equal(t, []int{2, 1, 3}, lo.Map(ranked, func(r *model.Rider, _ int) int { return r.ID }))
	assert.Equal(t, 3*time.Hour+40*time.Minute, ranked[0].Totals.AdjustedTime)
	assert.Equal(t, 3*time.Hour+40*time.Minute+30*time.Second, ranked[1].Totals.AdjustedTime)
}

func TestRaceTotalsGeneralStopsAtEmptyStage(t *testing.T) {
	f := newFixture(t, 2)
	s1 := f.stage(model.FLAT)
	f.result(s1, 1, 3*time.Hour)
	f.result(s1, 2, 3*time.Hour+time.Minute)
	f.stage(model.FLAT) // no results yet
	s3 := f.stage(model.FLAT)
	f.result(s3, 2, time.Hour)

	e := f.engine()
	riders := e.RaceTotals(f.race, AdjustedTime)
	ids := lo.Map(riders, func(r *model.Rider, _ int) int { return r.ID })
	assert.Equal(t, []int{1, 2}, ids)
	r2, _ := f.store.Riders.Get(2)
	assert.Equal(t, 3*time.Hour+time.Minute, r2.Totals.AdjustedTime)

	// points keep counting past the empty stage
	e.RaceTotals(f.race, Points)
	assert.Equal(t, 30+50, r2.Totals.Points)
}

func TestRaceTotalsPointsRepeatable(t *testing.T) {
	f := newFixture(t, 2)
	s1 := f.stage(model.FLAT)
	f.result(s1, 1, 3*time.Hour)
	f.result(s1, 2, 3*time.Hour+time.Minute)
	s2 := f.stage(model.MEDIUM_MOUNTAIN)
	f.result(s2, 2, 4*time.Hour)
	f.result(s2, 1, 4*time.Hour+time.Minute)

	e := f.engine()
	first := Rank(e.RaceTotals(f.race, Points), Points)
	pts := lo.Map(first, func(r *model.Rider, _ int) int { return r.Totals.Points })
	second := Rank(e.RaceTotals(f.race, Points), Points)
	assert.Equal(t, pts, lo.Map(second, func(r *model.Rider, _ int) int { return r.Totals.Points }))
	assert.Equal(t, []int{50 + 25, 30 + 30}, pts)
	assert.Equal(t, 7*time.Hour+time.Minute, first[0].Totals.ElapsedTime)
}

func TestRankTiesKeepOrder(t *testing.T) {
	riders := []*model.Rider{
		{ID: 1, Totals: model.Totals{Points: 10}},
		{ID: 2, Totals: model.Totals{Points: 20}},
		{ID: 3, Totals: model.Totals{Points: 10}},
	}
	got := Rank(riders, Points)
	assert.Equal(t, []int{2, 1, 3}, lo.Map(got, func(r *model.Rider, _ int) int { return r.ID }))
}
