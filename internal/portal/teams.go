package portal

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/MorganPeterson/cyclingportal/internal/model"
)

func (p *Portal) CreateTeam(name, description string) (int, error) {
	if err := p.checkTeamName(name); err != nil {
		return 0, err
	}
	team := p.store.Teams.Insert(func(id int) *model.Team {
		return &model.Team{ID: id, Name: name, Description: description}
	})
	p.log.Debug("team created", zap.Int("teamId", team.ID), zap.String("name", name))
	return team.ID, nil
}

func (p *Portal) team(id int) (*model.Team, error) {
	team, ok := p.store.Teams.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: team %d", ErrNotFound, id)
	}
	return team, nil
}

// Team returns a copy of the team.
func (p *Portal) Team(id int) (model.Team, error) {
	team, err := p.team(id)
	if err != nil {
		return model.Team{}, err
	}
	return team.Clone(), nil
}

// RemoveTeam deletes the team, its riders and all of their results.
func (p *Portal) RemoveTeam(id int) error {
	team, err := p.team(id)
	if err != nil {
		return err
	}
	p.deleteTeam(team)
	return nil
}

// TeamIDs returns the IDs of all teams in creation order.
func (p *Portal) TeamIDs() []int {
	return p.store.Teams.IDs()
}

// TeamRiders returns the team's rider IDs in the order they joined.
func (p *Portal) TeamRiders(teamID int) ([]int, error) {
	team, err := p.team(teamID)
	if err != nil {
		return nil, err
	}
	return slices.Clone(team.RiderIDs), nil
}

// CreateRider adds a rider to the team and returns the rider's ID.
func (p *Portal) CreateRider(teamID int, name string, yearOfBirth int) (int, error) {
	if err := checkRider(name, yearOfBirth); err != nil {
		return 0, err
	}
	team, err := p.team(teamID)
	if err != nil {
		return 0, err
	}
	rider := p.store.Riders.Insert(func(id int) *model.Rider {
		return &model.Rider{ID: id, TeamID: teamID, Name: name, YearOfBirth: yearOfBirth}
	})
	team.RiderIDs = append(team.RiderIDs, rider.ID)
	p.log.Debug("rider created", zap.Int("teamId", teamID), zap.Int("riderId", rider.ID))
	return rider.ID, nil
}

func (p *Portal) rider(id int) (*model.Rider, error) {
	r, ok := p.store.Riders.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: rider %d", ErrNotFound, id)
	}
	return r, nil
}

// Rider returns a copy of the rider, totals as of the last classification
// query.
func (p *Portal) Rider(id int) (model.Rider, error) {
	r, err := p.rider(id)
	if err != nil {
		return model.Rider{}, err
	}
	return r.Clone(), nil
}

// RemoveRider deletes the rider and all of the rider's results.
func (p *Portal) RemoveRider(id int) error {
	r, err := p.rider(id)
	if err != nil {
		return err
	}
	p.deleteRider(r)
	return nil
}
