package portal

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/MorganPeterson/cyclingportal/internal/configuration"
)

// ImportRace creates the described race with its stages and segments, and
// concludes the preparation of every stage marked to be concluded. Either the
// whole race is created or nothing is.
func (p *Portal) ImportRace(desc *configuration.RaceDescription) (int, error) {
	if desc == nil {
		return 0, fmt.Errorf("%w: nil race description", ErrIllegalArgument)
	}
	var raceID int
	err := p.atomically(func(s *Portal) error {
		var err error
		if raceID, err = s.CreateRace(desc.Race.Name, desc.Race.Description); err != nil {
			return err
		}
		for i, st := range desc.Race.Stages {
			stageID, err := s.AddStageToRace(raceID, st.Name, st.Description, st.Length, st.Start, st.Type)
			if err != nil {
				return fmt.Errorf("stage %d: %w", i, err)
			}
			for j, seg := range st.Segments {
				if seg.Type.IsClimb() {
					_, err = s.AddCategorizedClimbToStage(stageID, seg.Location, seg.Type, seg.Gradient, seg.Length)
				} else {
					_, err = s.AddIntermediateSprintToStage(stageID, seg.Location)
				}
				if err != nil {
					return fmt.Errorf("stage %d segment %d: %w", i, j, err)
				}
			}
			if st.Conclude {
				if err := s.ConcludeStagePreparation(stageID); err != nil {
					return fmt.Errorf("stage %d: %w", i, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	p.log.Info("race imported",
		zap.Int("raceId", raceID),
		zap.String("name", desc.Race.Name),
		zap.Int("stages", len(desc.Race.Stages)))
	return raceID, nil
}
