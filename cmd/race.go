package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/MorganPeterson/cyclingportal/internal/configuration"
	"github.com/MorganPeterson/cyclingportal/internal/model"
	"github.com/MorganPeterson/cyclingportal/internal/parser"
)

func newRaceCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "race",
		Short: "create, remove, list, show and import races",
	}

	var description string
	create := &cobra.Command{
		Use:   "create NAME",
		Short: "creates a race without stages",
		Args:  cobra.ExactArgs(1),
		RunE: mutate(opts, func(s *session, args []string) error {
			id, err := s.portal.CreateRace(args[0], description)
			if err != nil {
				return err
			}
			return s.print(created{ID: id}, func(w io.Writer) {
				fmt.Fprintf(w, "Race %d created.\n", id)
			})
		}),
	}
	create.Flags().StringVarP(&description, "description", "d", "", "race description")

	var byName string
	remove := &cobra.Command{
		Use:   "remove [ID]",
		Short: "removes a race with its stages, segments and results",
		Args:  cobra.MaximumNArgs(1),
		RunE: mutate(opts, func(s *session, args []string) error {
			switch {
			case byName != "" && len(args) == 0:
				return s.portal.RemoveRaceByName(byName)
			case byName == "" && len(args) == 1:
				id, err := intArg(args, 0, "race id")
				if err != nil {
					return err
				}
				return s.portal.RemoveRaceByID(id)
			default:
				return errors.New("give either a race id or --name")
			}
		}),
	}
	remove.Flags().StringVar(&byName, "name", "", "remove the race with this name")

	list := &cobra.Command{
		Use:   "list",
		Short: "lists races",
		Args:  cobra.NoArgs,
		RunE: query(opts, func(s *session, _ []string) error {
			races := []model.Race{}
			for _, id := range s.portal.RaceIDs() {
				r, err := s.portal.Race(id)
				if err != nil {
					return err
				}
				races = append(races, r)
			}
			return s.print(races, func(w io.Writer) {
				for _, r := range races {
					fmt.Fprintf(w, "%d\t%s\t%d stages\n", r.ID, r.Name, len(r.StageIDs))
				}
			})
		}),
	}

	show := &cobra.Command{
		Use:   "show ID",
		Short: "shows the details of a race",
		Args:  cobra.ExactArgs(1),
		RunE: query(opts, func(s *session, args []string) error {
			id, err := intArg(args, 0, "race id")
			if err != nil {
				return err
			}
			details, err := s.portal.ViewRaceDetails(id)
			if err != nil {
				return err
			}
			return s.print(map[string]string{"details": details}, func(w io.Writer) {
				fmt.Fprintln(w, details)
			})
		}),
	}

	imp := &cobra.Command{
		Use:   "import FILE",
		Short: "creates a whole race from a TOML race description",
		Args:  cobra.ExactArgs(1),
		RunE: mutate(opts, func(s *session, args []string) error {
			desc, err := configuration.LoadRace(args[0])
			if err != nil {
				return err
			}
			id, err := s.portal.ImportRace(desc)
			if err != nil {
				return err
			}
			return s.print(created{ID: id}, func(w io.Writer) {
				fmt.Fprintf(w, "Race %d imported with %d stages.\n", id, len(desc.Race.Stages))
			})
		}),
	}

	cmd.AddCommand(create, remove, list, show, imp)
	return cmd
}

func newStageCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stage",
		Short: "add, remove, conclude and list stages",
	}

	var (
		description string
		start       string
		stageType   string
	)
	add := &cobra.Command{
		Use:   "add RACE_ID NAME LENGTH",
		Short: "adds a stage in preparation to a race",
		Args:  cobra.ExactArgs(3),
		RunE: mutate(opts, func(s *session, args []string) error {
			raceID, err := intArg(args, 0, "race id")
			if err != nil {
				return err
			}
			length, err := floatArg(args, 2, "length")
			if err != nil {
				return err
			}
			startTime, err := parser.ParseStart(start)
			if err != nil {
				return err
			}
			st, err := model.ParseStageType(stageType)
			if err != nil {
				return err
			}
			id, err := s.portal.AddStageToRace(raceID, args[1], description, length, startTime, st)
			if err != nil {
				return err
			}
			return s.print(created{ID: id}, func(w io.Writer) {
				fmt.Fprintf(w, "Stage %d added.\n", id)
			})
		}),
	}
	add.Flags().StringVarP(&description, "description", "d", "", "stage description")
	add.Flags().StringVar(&start, "start", "", "start time, "+parser.StartLayout)
	add.Flags().StringVar(&stageType, "type", "FLAT", "FLAT, MEDIUM_MOUNTAIN, HIGH_MOUNTAIN or TT")
	_ = add.MarkFlagRequired("start")

	remove := &cobra.Command{
		Use:   "remove ID",
		Short: "removes a stage with its segments and results",
		Args:  cobra.ExactArgs(1),
		RunE: mutate(opts, func(s *session, args []string) error {
			id, err := intArg(args, 0, "stage id")
			if err != nil {
				return err
			}
			return s.portal.RemoveStageByID(id)
		}),
	}

	conclude := &cobra.Command{
		Use:   "conclude ID",
		Short: "concludes stage preparation and opens the stage for results",
		Args:  cobra.ExactArgs(1),
		RunE: mutate(opts, func(s *session, args []string) error {
			id, err := intArg(args, 0, "stage id")
			if err != nil {
				return err
			}
			return s.portal.ConcludeStagePreparation(id)
		}),
	}

	list := &cobra.Command{
		Use:   "list RACE_ID",
		Short: "lists the stages of a race by start time",
		Args:  cobra.ExactArgs(1),
		RunE: query(opts, func(s *session, args []string) error {
			raceID, err := intArg(args, 0, "race id")
			if err != nil {
				return err
			}
			ids, err := s.portal.RaceStages(raceID)
			if err != nil {
				return err
			}
			stages := make([]model.Stage, 0, len(ids))
			for _, id := range ids {
				st, err := s.portal.Stage(id)
				if err != nil {
					return err
				}
				stages = append(stages, st)
			}
			return s.print(stages, func(w io.Writer) {
				for _, st := range stages {
					fmt.Fprintf(w, "%d\t%s\t%s\t%.2f km\t%s\t%s\n",
						st.ID, st.Name, st.Type, st.Length,
						st.StartTime.Format(parser.StartLayout), st.State)
				}
			})
		}),
	}

	cmd.AddCommand(add, remove, conclude, list)
	return cmd
}

func newSegmentCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "segment",
		Short: "add and remove climbs and sprints",
	}

	var gradient, length float64
	climb := &cobra.Command{
		Use:   "climb STAGE_ID LOCATION TYPE",
		Short: "adds a categorized climb (C4, C3, C2, C1, HC) to a stage",
		Args:  cobra.ExactArgs(3),
		RunE: mutate(opts, func(s *session, args []string) error {
			stageID, err := intArg(args, 0, "stage id")
			if err != nil {
				return err
			}
			location, err := floatArg(args, 1, "location")
			if err != nil {
				return err
			}
			segType, err := model.ParseSegmentType(args[2])
			if err != nil {
				return err
			}
			id, err := s.portal.AddCategorizedClimbToStage(stageID, location, segType, gradient, length)
			if err != nil {
				return err
			}
			return s.print(created{ID: id}, func(w io.Writer) {
				fmt.Fprintf(w, "Climb %d added.\n", id)
			})
		}),
	}
	climb.Flags().Float64Var(&gradient, "gradient", 0, "average gradient in percent")
	climb.Flags().Float64Var(&length, "length", 0, "climb length in km")

	sprint := &cobra.Command{
		Use:   "sprint STAGE_ID LOCATION",
		Short: "adds an intermediate sprint to a stage",
		Args:  cobra.ExactArgs(2),
		RunE: mutate(opts, func(s *session, args []string) error {
			stageID, err := intArg(args, 0, "stage id")
			if err != nil {
				return err
			}
			location, err := floatArg(args, 1, "location")
			if err != nil {
				return err
			}
			id, err := s.portal.AddIntermediateSprintToStage(stageID, location)
			if err != nil {
				return err
			}
			return s.print(created{ID: id}, func(w io.Writer) {
				fmt.Fprintf(w, "Sprint %d added.\n", id)
			})
		}),
	}

	remove := &cobra.Command{
		Use:   "remove ID",
		Short: "removes a segment from a stage in preparation",
		Args:  cobra.ExactArgs(1),
		RunE: mutate(opts, func(s *session, args []string) error {
			id, err := intArg(args, 0, "segment id")
			if err != nil {
				return err
			}
			return s.portal.RemoveSegment(id)
		}),
	}

	cmd.AddCommand(climb, sprint, remove)
	return cmd
}
