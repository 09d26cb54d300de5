package portal

import (
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/MorganPeterson/cyclingportal/internal/model"
)

// RaceIDs returns the IDs of all races in creation order.
func (p *Portal) RaceIDs() []int {
	return p.store.Races.IDs()
}

// CreateRace adds a race with no stages and returns its ID.
func (p *Portal) CreateRace(name, description string) (int, error) {
	if err := p.checkRaceName(name); err != nil {
		return 0, err
	}
	race := p.store.Races.Insert(func(id int) *model.Race {
		return &model.Race{ID: id, Name: name, Description: description}
	})
	p.log.Debug("race created", zap.Int("raceId", race.ID), zap.String("name", name))
	return race.ID, nil
}

func (p *Portal) race(id int) (*model.Race, error) {
	race, ok := p.store.Races.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: race %d", ErrNotFound, id)
	}
	return race, nil
}

// Race returns a copy of the race.
func (p *Portal) Race(id int) (model.Race, error) {
	race, err := p.race(id)
	if err != nil {
		return model.Race{}, err
	}
	return race.Clone(), nil
}

// RaceLength is the sum of the race's stage lengths in kilometers.
func (p *Portal) RaceLength(id int) (float64, error) {
	race, err := p.race(id)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, sid := range race.StageIDs {
		if st, ok := p.store.Stages.Get(sid); ok {
			total += st.Length
		}
	}
	return total, nil
}

// ViewRaceDetails describes the race: ID, name, description, number of
// stages and total length.
func (p *Portal) ViewRaceDetails(id int) (string, error) {
	race, err := p.race(id)
	if err != nil {
		return "", err
	}
	length, _ := p.RaceLength(id)
	return fmt.Sprintf(
		"Race ID: %d, Race Name: %s, Race Description: %s, Number of Stages: %d, Total Race Length: %.2f",
		race.ID, race.Name, race.Description, len(race.StageIDs), length,
	), nil
}

// RemoveRaceByID deletes the race with all of its stages, segments and
// results.
func (p *Portal) RemoveRaceByID(id int) error {
	race, err := p.race(id)
	if err != nil {
		return err
	}
	p.deleteRace(race)
	return nil
}

// RemoveRaceByName is RemoveRaceByID addressed by name.
func (p *Portal) RemoveRaceByName(name string) error {
	race, ok := p.store.Races.Find(func(r *model.Race) bool { return r.Name == name })
	if !ok {
		return fmt.Errorf("%w: race named %q", ErrNotFound, name)
	}
	p.deleteRace(race)
	return nil
}

func (p *Portal) NumberOfStages(raceID int) (int, error) {
	race, err := p.race(raceID)
	if err != nil {
		return 0, err
	}
	return len(race.StageIDs), nil
}

// AddStageToRace creates a stage in preparation and returns its ID. The race
// keeps its stages ordered by start time.
func (p *Portal) AddStageToRace(
	raceID int, name, description string, length float64, start time.Time, stageType model.StageType,
) (int, error) {
	if err := p.checkStage(name, length); err != nil {
		return 0, err
	}
	race, err := p.race(raceID)
	if err != nil {
		return 0, err
	}

	stage := p.store.Stages.Insert(func(id int) *model.Stage {
		return &model.Stage{
			ID:          id,
			RaceID:      raceID,
			Name:        name,
			Description: description,
			Length:      length,
			StartTime:   start,
			Type:        stageType,
			State:       model.InPreparation,
		}
	})

	at := len(race.StageIDs)
	for i, sid := range race.StageIDs {
		if other, ok := p.store.Stages.Get(sid); ok && other.StartTime.After(start) {
			at = i
			break
		}
	}
	race.StageIDs = slices.Insert(race.StageIDs, at, stage.ID)

	p.log.Debug("stage added",
		zap.Int("raceId", raceID),
		zap.Int("stageId", stage.ID),
		zap.Stringer("type", stageType),
		zap.Time("start", start))
	return stage.ID, nil
}

// RaceStages returns the race's stage IDs ordered by start time.
func (p *Portal) RaceStages(raceID int) ([]int, error) {
	race, err := p.race(raceID)
	if err != nil {
		return nil, err
	}
	return slices.Clone(race.StageIDs), nil
}

func (p *Portal) stage(id int) (*model.Stage, error) {
	st, ok := p.store.Stages.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: stage %d", ErrNotFound, id)
	}
	return st, nil
}

// Stage returns a copy of the stage.
func (p *Portal) Stage(id int) (model.Stage, error) {
	st, err := p.stage(id)
	if err != nil {
		return model.Stage{}, err
	}
	return st.Clone(), nil
}

func (p *Portal) StageLength(id int) (float64, error) {
	st, err := p.stage(id)
	if err != nil {
		return 0, err
	}
	return st.Length, nil
}

// RemoveStageByID deletes the stage with its segments and results.
func (p *Portal) RemoveStageByID(id int) error {
	st, err := p.stage(id)
	if err != nil {
		return err
	}
	p.deleteStage(st)
	return nil
}

// ConcludeStagePreparation freezes the stage's segments and opens it for
// results.
func (p *Portal) ConcludeStagePreparation(id int) error {
	st, err := p.stage(id)
	if err != nil {
		return err
	}
	if st.State != model.InPreparation {
		return fmt.Errorf("%w: stage %d preparation has already been concluded", ErrInvalidStageState, id)
	}
	st.State = model.WaitingForResults
	p.log.Debug("stage preparation concluded", zap.Int("stageId", id))
	return nil
}

// StageSegments returns the stage's segment IDs ordered by location.
func (p *Portal) StageSegments(stageID int) ([]int, error) {
	st, err := p.stage(stageID)
	if err != nil {
		return nil, err
	}
	return slices.Clone(st.SegmentIDs), nil
}

// AddCategorizedClimbToStage adds a climb of the given category and returns
// the segment ID.
func (p *Portal) AddCategorizedClimbToStage(
	stageID int, location float64, segType model.SegmentType, averageGradient, length float64,
) (int, error) {
	st, err := p.stage(stageID)
	if err != nil {
		return 0, err
	}
	if err := checkSegmentTarget(st, location); err != nil {
		return 0, err
	}
	if !segType.IsClimb() {
		return 0, fmt.Errorf("%w: %s is not a climb category", ErrIllegalArgument, segType)
	}
	if !finite(averageGradient) || !finite(length) {
		return 0, fmt.Errorf("%w: climb gradient %v and length %v must be finite", ErrIllegalArgument, averageGradient, length)
	}
	return p.addSegment(st, location, segType, &model.Climb{AverageGradient: averageGradient, Length: length}), nil
}

// AddIntermediateSprintToStage adds a sprint and returns the segment ID.
func (p *Portal) AddIntermediateSprintToStage(stageID int, location float64) (int, error) {
	st, err := p.stage(stageID)
	if err != nil {
		return 0, err
	}
	if err := checkSegmentTarget(st, location); err != nil {
		return 0, err
	}
	return p.addSegment(st, location, model.SPRINT, nil), nil
}

func (p *Portal) addSegment(st *model.Stage, location float64, segType model.SegmentType, climb *model.Climb) int {
	seg := p.store.Segments.Insert(func(id int) *model.Segment {
		return &model.Segment{
			ID:       id,
			StageID:  st.ID,
			Location: location,
			Type:     segType,
			Climb:    climb,
		}
	})

	at := len(st.SegmentIDs)
	for i, id := range st.SegmentIDs {
		if other, ok := p.store.Segments.Get(id); ok && other.Location > location {
			at = i
			break
		}
	}
	st.SegmentIDs = slices.Insert(st.SegmentIDs, at, seg.ID)

	p.log.Debug("segment added",
		zap.Int("stageId", st.ID),
		zap.Int("segmentId", seg.ID),
		zap.Stringer("type", segType),
		zap.Float64("location", location))
	return seg.ID
}

// Segment returns a copy of the segment.
func (p *Portal) Segment(id int) (model.Segment, error) {
	seg, ok := p.store.Segments.Get(id)
	if !ok {
		return model.Segment{}, fmt.Errorf("%w: segment %d", ErrNotFound, id)
	}
	return seg.Clone(), nil
}

// RemoveSegment deletes a segment of a stage still in preparation.
func (p *Portal) RemoveSegment(id int) error {
	seg, ok := p.store.Segments.Get(id)
	if !ok {
		return fmt.Errorf("%w: segment %d", ErrNotFound, id)
	}
	st, err := p.stage(seg.StageID)
	if err != nil {
		return err
	}
	if st.State != model.InPreparation {
		return fmt.Errorf("%w: stage %d preparation has been concluded", ErrInvalidStageState, st.ID)
	}
	p.deleteSegment(seg)
	return nil
}
