package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/MorganPeterson/cyclingportal/internal/classification"
	"github.com/MorganPeterson/cyclingportal/internal/parser"
	"github.com/MorganPeterson/cyclingportal/internal/portal"
)

type stageLine struct {
	Rank           int           `json:"rank"`
	RiderID        int           `json:"riderId"`
	AdjustedTime   time.Duration `json:"adjustedTime"`
	Points         int           `json:"points"`
	MountainPoints int           `json:"mountainPoints"`
}

func newClassifyCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "shows stage rankings and race classifications",
	}

	stage := &cobra.Command{
		Use:   "stage STAGE_ID",
		Short: "shows the stage ranking with adjusted times, points and mountain points",
		Args:  cobra.ExactArgs(1),
		RunE: query(opts, func(s *session, args []string) error {
			id, err := intArg(args, 0, "stage id")
			if err != nil {
				return err
			}
			lines, err := stageRanking(s.portal, id)
			if err != nil {
				return err
			}
			return s.print(lines, func(w io.Writer) {
				for _, l := range lines {
					fmt.Fprintf(w, "%d\trider %d\t%s\t%d pts\t%d mountain\n",
						l.Rank, l.RiderID, parser.FmtDuration(l.AdjustedTime), l.Points, l.MountainPoints)
				}
			})
		}),
	}

	cmd.AddCommand(
		stage,
		raceClassifyCmd(opts, "general", "shows the general classification", classification.AdjustedTime),
		raceClassifyCmd(opts, "points", "shows the points classification", classification.Points),
		raceClassifyCmd(opts, "mountain", "shows the mountain classification", classification.MountainPoints),
	)
	return cmd
}

func stageRanking(p *portal.Portal, stageID int) ([]stageLine, error) {
	riders, err := p.RidersRankInStage(stageID)
	if err != nil {
		return nil, err
	}
	adjusted, err := p.RankedAdjustedElapsedTimesInStage(stageID)
	if err != nil {
		return nil, err
	}
	points, err := p.RidersPointsInStage(stageID)
	if err != nil {
		return nil, err
	}
	mountain, err := p.RidersMountainPointsInStage(stageID)
	if err != nil {
		return nil, err
	}
	lines := make([]stageLine, len(riders))
	for i, id := range riders {
		lines[i] = stageLine{
			Rank:           i + 1,
			RiderID:        id,
			AdjustedTime:   adjusted[i],
			Points:         points[i],
			MountainPoints: mountain[i],
		}
	}
	return lines, nil
}

func raceClassifyCmd(opts *rootOptions, use, short string, metric classification.Metric) *cobra.Command {
	return &cobra.Command{
		Use:   use + " RACE_ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: query(opts, func(s *session, args []string) error {
			id, err := intArg(args, 0, "race id")
			if err != nil {
				return err
			}
			standings, err := s.portal.Classification(id, metric)
			if err != nil {
				return err
			}
			return s.print(standings, func(w io.Writer) {
				for i, st := range standings {
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i+1, st.RiderName, st.TeamName, standingValue(st, metric))
				}
			})
		}),
	}
}

func standingValue(st portal.Standing, metric classification.Metric) string {
	switch metric {
	case classification.AdjustedTime:
		return parser.FmtDuration(st.AdjustedTime)
	case classification.Points:
		return fmt.Sprintf("%d pts", st.Points)
	case classification.MountainPoints:
		return fmt.Sprintf("%d pts", st.MountainPoints)
	default:
		return parser.FmtDuration(st.ElapsedTime)
	}
}
