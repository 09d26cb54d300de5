package portal

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/MorganPeterson/cyclingportal/internal/model"
)

const (
	maxNameLength  = 30
	minStageLength = 5.0 // km
	minYearOfBirth = 1900
)

func validateName(kind, name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: %s name is empty", ErrInvalidName, kind)
	case utf8.RuneCountInString(name) > maxNameLength:
		return fmt.Errorf("%w: %s name %q is longer than %d characters",
			ErrInvalidName, kind, name, maxNameLength)
	case strings.IndexFunc(name, unicode.IsSpace) >= 0:
		return fmt.Errorf("%w: %s name %q contains whitespace", ErrInvalidName, kind, name)
	}
	return nil
}

func (p *Portal) checkTeamName(name string) error {
	if err := validateName("team", name); err != nil {
		return err
	}
	if _, taken := p.store.Teams.Find(func(t *model.Team) bool { return t.Name == name }); taken {
		return fmt.Errorf("%w: team %q", ErrDuplicateName, name)
	}
	return nil
}

func (p *Portal) checkRaceName(name string) error {
	if err := validateName("race", name); err != nil {
		return err
	}
	if _, taken := p.store.Races.Find(func(r *model.Race) bool { return r.Name == name }); taken {
		return fmt.Errorf("%w: race %q", ErrDuplicateName, name)
	}
	return nil
}

func (p *Portal) checkStage(name string, length float64) error {
	if err := validateName("stage", name); err != nil {
		return err
	}
	if !finite(length) || length < minStageLength {
		return fmt.Errorf("%w: %.2fkm is shorter than %.0fkm", ErrInvalidLength, length, minStageLength)
	}
	if _, taken := p.store.Stages.Find(func(s *model.Stage) bool { return s.Name == name }); taken {
		return fmt.Errorf("%w: stage %q", ErrDuplicateName, name)
	}
	return nil
}

func checkRider(name string, yearOfBirth int) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: rider name is empty", ErrIllegalArgument)
	}
	if yearOfBirth < minYearOfBirth {
		return fmt.Errorf("%w: year of birth %d is before %d", ErrIllegalArgument, yearOfBirth, minYearOfBirth)
	}
	return nil
}

// checkSegmentTarget verifies that a segment can be added to stage at location.
func checkSegmentTarget(stage *model.Stage, location float64) error {
	if stage.State != model.InPreparation {
		return fmt.Errorf("%w: stage %d preparation has been concluded", ErrInvalidStageState, stage.ID)
	}
	if stage.Type == model.TT {
		return fmt.Errorf("%w: time-trial stage %d cannot contain segments", ErrInvalidStageType, stage.ID)
	}
	if !finite(location) || location < 0 || location > stage.Length {
		return fmt.Errorf("%w: %.2fkm is outside stage %d of %.2fkm",
			ErrInvalidLocation, location, stage.ID, stage.Length)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
