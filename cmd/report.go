package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/MorganPeterson/cyclingportal/internal/reports"
)

func newReportCmd(opts *rootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "report RACE_ID",
		Short: "exports the race classifications as markdown and/or CSV",
		Args:  cobra.ExactArgs(1),
		RunE: query(opts, func(s *session, args []string) error {
			id, err := intArg(args, 0, "race id")
			if err != nil {
				return err
			}
			if format != "" {
				s.cfg.Report.Format = format
			}
			paths, err := reports.ExportRaceReport(id, s.portal, s.cfg)
			if err != nil {
				return err
			}
			return s.print(paths, func(w io.Writer) {
				for _, p := range paths {
					fmt.Fprintf(w, "Report exported to %s\n", p)
				}
			})
		}),
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "markdown, csv or both (default from config)")
	return cmd
}

func newEraseCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "erase",
		Short: "removes every entity and resets all ids",
		Args:  cobra.NoArgs,
		RunE: mutate(opts, func(s *session, _ []string) error {
			s.portal.Erase()
			return nil
		}),
	}
}
