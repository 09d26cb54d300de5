package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MorganPeterson/cyclingportal/internal/configuration"
	"github.com/MorganPeterson/cyclingportal/internal/log"
	"github.com/MorganPeterson/cyclingportal/internal/persistence"
	"github.com/MorganPeterson/cyclingportal/internal/portal"
)

// session is one command invocation: the loaded config, the portal restored
// from the snapshot file and where to write it back.
type session struct {
	cfg      *configuration.Config
	log      *zap.Logger
	portal   *portal.Portal
	snapshot string
	json     bool
	out      io.Writer
}

func openSession(cmd *cobra.Command, opts *rootOptions) (*session, error) {
	cfg, err := configuration.LoadOrDefault(opts.cfgFile)
	if err != nil {
		return nil, err
	}
	level := cfg.Log.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logger, err := log.New(level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	tables, err := cfg.Points.Tables()
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:      cfg,
		log:      logger,
		portal:   portal.New(portal.WithLogger(logger), portal.WithTables(tables)),
		snapshot: opts.snapshot,
		json:     opts.json,
		out:      cmd.OutOrStdout(),
	}
	if s.snapshot == "" {
		s.snapshot = filepath.Join(cfg.General.Directory, cfg.General.Snapshot)
	}

	if _, err := os.Stat(persistence.Path(s.snapshot)); err == nil {
		if err := s.portal.Load(s.snapshot); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("checking snapshot: %w", err)
	}
	return s, nil
}

func (s *session) save() error {
	if dir := filepath.Dir(s.snapshot); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating snapshot directory: %w", err)
		}
	}
	return s.portal.Save(s.snapshot)
}

func (s *session) close() {
	_ = s.log.Sync()
}

// print writes v as JSON when --json is set, otherwise calls text.
func (s *session) print(v any, text func(w io.Writer)) error {
	if !s.json {
		text(s.out)
		return nil
	}
	enc := json.NewEncoder(s.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// query runs fn against the restored portal without saving.
func query(opts *rootOptions, fn func(s *session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, opts)
		if err != nil {
			return err
		}
		defer s.close()
		return fn(s, args)
	}
}

// mutate runs fn and saves the snapshot when it succeeds.
func mutate(opts *rootOptions, fn func(s *session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, opts)
		if err != nil {
			return err
		}
		defer s.close()
		if err := fn(s, args); err != nil {
			s.log.Debug("command failed, snapshot left unchanged",
				zap.String("command", cmd.CommandPath()), log.ErrorField(err))
			return err
		}
		if err := s.save(); err != nil {
			s.log.Error("saving snapshot", zap.String("path", s.snapshot), log.ErrorField(err))
			return err
		}
		return nil
	}
}

func intArg(args []string, i int, name string) (int, error) {
	v, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, args[i])
	}
	return v, nil
}

func floatArg(args []string, i int, name string) (float64, error) {
	v, err := strconv.ParseFloat(args[i], 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", name, args[i])
	}
	return v, nil
}

type created struct {
	ID int `json:"id"`
}
