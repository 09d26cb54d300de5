package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/MorganPeterson/cyclingportal/internal/parser"
)

type riderResult struct {
	StageID  int           `json:"stageId"`
	RiderID  int           `json:"riderId"`
	Found    bool          `json:"found"`
	Clocks   []time.Time   `json:"clocks"`
	Elapsed  time.Duration `json:"elapsed"`
	Adjusted time.Duration `json:"adjusted"`
}

func newResultCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "result",
		Short: "register, delete and show rider results",
	}

	var elapsed bool
	register := &cobra.Command{
		Use:   "register STAGE_ID RIDER_ID START [SEGMENT...] FINISH",
		Short: "registers a rider's checkpoint clocks in a stage",
		Long: `Registers the clocks at which a rider started, passed every segment of
the stage in location order, and finished. Clocks are ` + parser.ClockLayout + ` on
the stage's start day, or full RFC 3339 timestamps. With --elapsed every
checkpoint is a MM:SS.sss or HH:MM:SS.sss offset from the stage start time.`,
		Args: cobra.MinimumNArgs(4),
		RunE: mutate(opts, func(s *session, args []string) error {
			stageID, err := intArg(args, 0, "stage id")
			if err != nil {
				return err
			}
			riderID, err := intArg(args, 1, "rider id")
			if err != nil {
				return err
			}
			var ref time.Time
			if st, err := s.portal.Stage(stageID); err == nil {
				ref = st.StartTime
			}
			checkpoints := make([]time.Time, 0, len(args)-2)
			for _, a := range args[2:] {
				t, err := checkpoint(a, ref, elapsed)
				if err != nil {
					return err
				}
				checkpoints = append(checkpoints, t)
			}
			return s.portal.RegisterRiderResultsInStage(stageID, riderID, checkpoints...)
		}),
	}
	register.Flags().BoolVar(&elapsed, "elapsed", false, "checkpoints are offsets from the stage start")

	remove := &cobra.Command{
		Use:   "delete STAGE_ID RIDER_ID",
		Short: "deletes a rider's result in a stage",
		Args:  cobra.ExactArgs(2),
		RunE: mutate(opts, func(s *session, args []string) error {
			stageID, err := intArg(args, 0, "stage id")
			if err != nil {
				return err
			}
			riderID, err := intArg(args, 1, "rider id")
			if err != nil {
				return err
			}
			return s.portal.DeleteRiderResultsInStage(stageID, riderID)
		}),
	}

	show := &cobra.Command{
		Use:   "show STAGE_ID RIDER_ID",
		Short: "shows a rider's segment clocks, elapsed and adjusted time in a stage",
		Args:  cobra.ExactArgs(2),
		RunE: query(opts, func(s *session, args []string) error {
			stageID, err := intArg(args, 0, "stage id")
			if err != nil {
				return err
			}
			riderID, err := intArg(args, 1, "rider id")
			if err != nil {
				return err
			}
			clocks, elapsed, err := s.portal.RiderResultsInStage(stageID, riderID)
			if err != nil {
				return err
			}
			adjusted, found, err := s.portal.RiderAdjustedElapsedTimeInStage(stageID, riderID)
			if err != nil {
				return err
			}
			res := riderResult{
				StageID:  stageID,
				RiderID:  riderID,
				Found:    found,
				Clocks:   clocks,
				Elapsed:  elapsed,
				Adjusted: adjusted,
			}
			return s.print(res, func(w io.Writer) {
				if !found {
					fmt.Fprintf(w, "Rider %d has no result in stage %d.\n", riderID, stageID)
					return
				}
				fmt.Fprintf(w, "segments: %s\nelapsed:  %s\nadjusted: %s\n",
					strings.Join(lo.Map(clocks, func(t time.Time, _ int) string { return parser.FmtClock(t) }), " "),
					parser.FmtDuration(elapsed), parser.FmtDuration(adjusted))
			})
		}),
	}

	cmd.AddCommand(register, remove, show)
	return cmd
}

func checkpoint(arg string, ref time.Time, elapsed bool) (time.Time, error) {
	if !elapsed {
		return parser.ParseClock(arg, ref)
	}
	d, err := parser.HMS(arg)
	if err != nil {
		return time.Time{}, err
	}
	return ref.Add(d), nil
}
