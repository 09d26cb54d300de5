// Package store holds the in-memory entity graph. Entities reference each
// other by ID only; parents own ordered ID lists of their children.
package store

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/MorganPeterson/cyclingportal/internal/model"
)

// Store is the aggregate of all entity tables. It is owned by the portal and
// passed explicitly to the engines that read from it.
type Store struct {
	Teams    *Table[model.Team]
	Riders   *Table[model.Rider]
	Races    *Table[model.Race]
	Stages   *Table[model.Stage]
	Segments *Table[model.Segment]
	Results  *Table[model.Result]
}

// New returns an empty store with every counter at zero.
func New() *Store {
	return &Store{
		Teams:    newTable[model.Team](),
		Riders:   newTable[model.Rider](),
		Races:    newTable[model.Race](),
		Stages:   newTable[model.Stage](),
		Segments: newTable[model.Segment](),
		Results:  newTable[model.Result](),
	}
}

// Reset clears every collection and rewinds every ID counter.
func (s *Store) Reset() {
	s.Teams.Reset()
	s.Riders.Reset()
	s.Races.Reset()
	s.Stages.Reset()
	s.Segments.Reset()
	s.Results.Reset()
}

// Counters are the last IDs issued per entity kind.
type Counters struct {
	Team    int
	Rider   int
	Race    int
	Stage   int
	Segment int
	Result  int
}

// Snapshot is a deep copy of the whole store, collections in insertion order.
type Snapshot struct {
	Counters Counters
	Teams    []model.Team
	Riders   []model.Rider
	Races    []model.Race
	Stages   []model.Stage
	Segments []model.Segment
	Results  []model.Result
}

// Snapshot copies the store. The copy shares no memory with the store.
func (s *Store) Snapshot() *Snapshot {
	snap := &Snapshot{
		Counters: Counters{
			Team:    s.Teams.Last(),
			Rider:   s.Riders.Last(),
			Race:    s.Races.Last(),
			Stage:   s.Stages.Last(),
			Segment: s.Segments.Last(),
			Result:  s.Results.Last(),
		},
	}
	for _, t := range s.Teams.All() {
		snap.Teams = append(snap.Teams, t.Clone())
	}
	for _, r := range s.Riders.All() {
		snap.Riders = append(snap.Riders, r.Clone())
	}
	for _, r := range s.Races.All() {
		snap.Races = append(snap.Races, r.Clone())
	}
	for _, st := range s.Stages.All() {
		snap.Stages = append(snap.Stages, st.Clone())
	}
	for _, sg := range s.Segments.All() {
		snap.Segments = append(snap.Segments, sg.Clone())
	}
	for _, r := range s.Results.All() {
		snap.Results = append(snap.Results, r.Clone())
	}
	return snap
}

// Clone is a deep copy of the store through a snapshot.
func (s *Store) Clone() *Store {
	c, err := FromSnapshot(s.Snapshot())
	if err != nil {
		// a snapshot of a live store is consistent by construction
		panic(fmt.Sprintf("store: cloning inconsistent store: %v", err))
	}
	return c
}

var ErrCorruptSnapshot = errors.New("corrupt snapshot")

// FromSnapshot builds a new store from snap after checking that every ID is
// unique, covered by its counter, and that parent and child lists agree.
// snap itself is not retained.
func FromSnapshot(snap *Snapshot) (*Store, error) {
	s := New()
	c := snap.Counters

	for _, t := range snap.Teams {
		if err := checkID("team", t.ID, c.Team, s.Teams); err != nil {
			return nil, err
		}
		row := t.Clone()
		s.Teams.restore(t.ID, &row)
	}
	for _, r := range snap.Riders {
		if err := checkID("rider", r.ID, c.Rider, s.Riders); err != nil {
			return nil, err
		}
		row := r.Clone()
		s.Riders.restore(r.ID, &row)
	}
	for _, r := range snap.Races {
		if err := checkID("race", r.ID, c.Race, s.Races); err != nil {
			return nil, err
		}
		row := r.Clone()
		s.Races.restore(r.ID, &row)
	}
	for _, st := range snap.Stages {
		if err := checkID("stage", st.ID, c.Stage, s.Stages); err != nil {
			return nil, err
		}
		row := st.Clone()
		s.Stages.restore(st.ID, &row)
	}
	for _, sg := range snap.Segments {
		if err := checkID("segment", sg.ID, c.Segment, s.Segments); err != nil {
			return nil, err
		}
		row := sg.Clone()
		s.Segments.restore(sg.ID, &row)
	}
	for _, r := range snap.Results {
		if err := checkID("result", r.ID, c.Result, s.Results); err != nil {
			return nil, err
		}
		row := r.Clone()
		s.Results.restore(r.ID, &row)
	}

	s.Teams.last, s.Riders.last, s.Races.last = c.Team, c.Rider, c.Race
	s.Stages.last, s.Segments.last, s.Results.last = c.Stage, c.Segment, c.Result

	if err := s.checkLinks(); err != nil {
		return nil, err
	}
	return s, nil
}

func checkID[T any](kind string, id, last int, t *Table[T]) error {
	if id <= 0 || id > last {
		return fmt.Errorf("%w: %s id %d outside counter %d", ErrCorruptSnapshot, kind, id, last)
	}
	if _, dup := t.Get(id); dup {
		return fmt.Errorf("%w: duplicate %s id %d", ErrCorruptSnapshot, kind, id)
	}
	return nil
}

// checkLinks verifies that every child points at an existing parent and that
// the parent lists the child exactly once.
func (s *Store) checkLinks() error {
	for _, r := range s.Riders.All() {
		team, ok := s.Teams.Get(r.TeamID)
		if !ok || lo.Count(team.RiderIDs, r.ID) != 1 {
			return fmt.Errorf("%w: rider %d not owned by team %d", ErrCorruptSnapshot, r.ID, r.TeamID)
		}
	}
	for _, st := range s.Stages.All() {
		if st.State != model.InPreparation && st.State != model.WaitingForResults {
			return fmt.Errorf("%w: stage %d has unknown state %d", ErrCorruptSnapshot, st.ID, int(st.State))
		}
		race, ok := s.Races.Get(st.RaceID)
		if !ok || lo.Count(race.StageIDs, st.ID) != 1 {
			return fmt.Errorf("%w: stage %d not owned by race %d", ErrCorruptSnapshot, st.ID, st.RaceID)
		}
	}
	for _, sg := range s.Segments.All() {
		st, ok := s.Stages.Get(sg.StageID)
		if !ok || lo.Count(st.SegmentIDs, sg.ID) != 1 {
			return fmt.Errorf("%w: segment %d not owned by stage %d", ErrCorruptSnapshot, sg.ID, sg.StageID)
		}
	}
	type entry struct{ rider, stage int }
	seen := make(map[entry]int)
	for _, r := range s.Results.All() {
		if prev, dup := seen[entry{r.RiderID, r.StageID}]; dup {
			return fmt.Errorf("%w: results %d and %d are both for rider %d in stage %d",
				ErrCorruptSnapshot, prev, r.ID, r.RiderID, r.StageID)
		}
		seen[entry{r.RiderID, r.StageID}] = r.ID
		st, ok := s.Stages.Get(r.StageID)
		if !ok || lo.Count(st.ResultIDs, r.ID) != 1 {
			return fmt.Errorf("%w: result %d not owned by stage %d", ErrCorruptSnapshot, r.ID, r.StageID)
		}
		if len(r.SegmentTimes) != len(st.SegmentIDs) {
			return fmt.Errorf("%w: result %d has %d splits for %d segments",
				ErrCorruptSnapshot, r.ID, len(r.SegmentTimes), len(st.SegmentIDs))
		}
		rider, ok := s.Riders.Get(r.RiderID)
		if !ok || lo.Count(rider.ResultIDs, r.ID) != 1 {
			return fmt.Errorf("%w: result %d not owned by rider %d", ErrCorruptSnapshot, r.ID, r.RiderID)
		}
	}

	// the other direction: no parent lists a missing child
	for _, t := range s.Teams.All() {
		if err := checkChildren("team", t.ID, t.RiderIDs, s.Riders); err != nil {
			return err
		}
	}
	for _, race := range s.Races.All() {
		if err := checkChildren("race", race.ID, race.StageIDs, s.Stages); err != nil {
			return err
		}
	}
	for _, st := range s.Stages.All() {
		if err := checkChildren("stage", st.ID, st.SegmentIDs, s.Segments); err != nil {
			return err
		}
		if err := checkChildren("stage", st.ID, st.ResultIDs, s.Results); err != nil {
			return err
		}
	}
	for _, r := range s.Riders.All() {
		if err := checkChildren("rider", r.ID, r.ResultIDs, s.Results); err != nil {
			return err
		}
	}
	return nil
}

func checkChildren[T any](kind string, id int, children []int, t *Table[T]) error {
	for _, c := range children {
		if _, ok := t.Get(c); !ok {
			return fmt.Errorf("%w: %s %d lists missing child %d", ErrCorruptSnapshot, kind, id, c)
		}
	}
	return nil
}
