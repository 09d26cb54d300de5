package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/MorganPeterson/cyclingportal/internal/model"
)

func newTeamCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "create, remove and list teams",
	}

	var description string
	create := &cobra.Command{
		Use:   "create NAME",
		Short: "creates a team",
		Args:  cobra.ExactArgs(1),
		RunE: mutate(opts, func(s *session, args []string) error {
			id, err := s.portal.CreateTeam(args[0], description)
			if err != nil {
				return err
			}
			return s.print(created{ID: id}, func(w io.Writer) {
				fmt.Fprintf(w, "Team %d created.\n", id)
			})
		}),
	}
	create.Flags().StringVarP(&description, "description", "d", "", "team description")

	remove := &cobra.Command{
		Use:   "remove ID",
		Short: "removes a team with its riders and their results",
		Args:  cobra.ExactArgs(1),
		RunE: mutate(opts, func(s *session, args []string) error {
			id, err := intArg(args, 0, "team id")
			if err != nil {
				return err
			}
			return s.portal.RemoveTeam(id)
		}),
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "lists teams with their riders",
		Args:  cobra.NoArgs,
		RunE: query(opts, func(s *session, _ []string) error {
			teams := []model.Team{}
			for _, id := range s.portal.TeamIDs() {
				t, err := s.portal.Team(id)
				if err != nil {
					return err
				}
				teams = append(teams, t)
			}
			return s.print(teams, func(w io.Writer) {
				for _, t := range teams {
					fmt.Fprintf(w, "%d\t%s\triders %v\n", t.ID, t.Name, t.RiderIDs)
				}
			})
		}),
	}

	cmd.AddCommand(create, remove, list)
	return cmd
}

func newRiderCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rider",
		Short: "create and remove riders",
	}

	create := &cobra.Command{
		Use:   "create TEAM_ID NAME YEAR_OF_BIRTH",
		Short: "adds a rider to a team",
		Args:  cobra.ExactArgs(3),
		RunE: mutate(opts, func(s *session, args []string) error {
			teamID, err := intArg(args, 0, "team id")
			if err != nil {
				return err
			}
			year, err := intArg(args, 2, "year of birth")
			if err != nil {
				return err
			}
			id, err := s.portal.CreateRider(teamID, args[1], year)
			if err != nil {
				return err
			}
			return s.print(created{ID: id}, func(w io.Writer) {
				fmt.Fprintf(w, "Rider %d created.\n", id)
			})
		}),
	}

	remove := &cobra.Command{
		Use:   "remove ID",
		Short: "removes a rider and the rider's results",
		Args:  cobra.ExactArgs(1),
		RunE: mutate(opts, func(s *session, args []string) error {
			id, err := intArg(args, 0, "rider id")
			if err != nil {
				return err
			}
			return s.portal.RemoveRider(id)
		}),
	}

	cmd.AddCommand(create, remove)
	return cmd
}
