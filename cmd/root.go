package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "CYCLING"

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	cfgFile  string
	snapshot string
	logLevel string
	json     bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "cyclingportal",
		Short:         "Manage multi-stage cycling races, results and classifications",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			v.SetEnvPrefix(envPrefix)
			v.AutomaticEnv() // read in environment variables that match
			bindFlags(cmd, v)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "config.toml",
		"config file, defaults apply when it does not exist")
	cmd.PersistentFlags().StringVar(&opts.snapshot, "snapshot", "",
		"snapshot file (default is <general.directory>/<general.snapshot>)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "",
		"log level, overrides log.level of the config file")
	cmd.PersistentFlags().BoolVar(&opts.json, "json", false,
		"print results as JSON")

	// add commands here
	cmd.AddCommand(
		newTeamCmd(opts),
		newRiderCmd(opts),
		newRaceCmd(opts),
		newStageCmd(opts),
		newSegmentCmd(opts),
		newResultCmd(opts),
		newClassifyCmd(opts),
		newReportCmd(opts),
		newEraseCmd(opts),
	)
	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// Bind each cobra flag to its associated viper configuration
// (environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Environment variables can't have dashes in them, so bind them to their
		// equivalent keys with underscores, e.g. --log-level to CYCLING_LOG_LEVEL
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name,
				fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not bind env var %s: %v", f.Name, err)
			}
		}
		// Apply the viper config value to the flag when the flag is not set and viper
		// has a value
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				fmt.Fprintf(os.Stderr, "Could set flag value for %s: %v", f.Name, err)
			}
		}
	})
}
