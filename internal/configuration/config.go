package configuration

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/MorganPeterson/cyclingportal/internal/classification"
	"github.com/MorganPeterson/cyclingportal/internal/model"
)

const (
	defaultDataDir      = "data"         // Default directory for snapshots
	defaultSnapshot     = "portal.ser"   // Default snapshot file name
	defaultReportDir    = "race_reports" // Default directory for reports
	defaultReportFormat = "markdown"     // Default report format
	defaultDelimiter    = ";"            // Default CSV delimiter
	defaultLogLevel     = "info"         // Default zap level
	defaultLogFormat    = "console"      // Default zap encoder
)

// Config is just for TOML decoding.
type Config struct {
	General General `toml:"general"`
	Log     Log     `toml:"log"`
	Points  Points  `toml:"points"`
	Report  Report  `toml:"report"`
}

// General maps the [general] section.
type General struct {
	Directory string `toml:"directory"` // "data"
	Snapshot  string `toml:"snapshot"`  // "portal.ser"
}

// Log maps the [log] section.
type Log struct {
	Level  string `toml:"level"`  // "debug", "info", "warn", "error"
	Format string `toml:"format"` // "console" or "json"
}

// Points maps the optional [points.stage] and [points.segment] tables. Keys
// are stage or segment type names; a missing key keeps the standard table.
type Points struct {
	Stage   map[string][]int `toml:"stage"`   // FLAT = [50, 30, …]
	Segment map[string][]int `toml:"segment"` // HC = [20, 15, …]
}

// Report maps the [report] section.
type Report struct {
	Directory string `toml:"directory"` // "race_reports"
	Format    string `toml:"format"`    // "markdown" or "csv" or "both"
	Delimiter string `toml:"delimiter"` // ";"
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	_ = cfg.validate() // defaults alone always validate
	return cfg
}

// Tables returns the standard scoring tables with the configured overrides.
func (p Points) Tables() (classification.Tables, error) {
	override := classification.Tables{
		Stage:   map[model.StageType][]int{},
		Segment: map[model.SegmentType][]int{},
	}
	for name, pts := range p.Stage {
		st, err := model.ParseStageType(name)
		if err != nil {
			return classification.Tables{}, fmt.Errorf("points.stage: %w", err)
		}
		override.Stage[st] = pts
	}
	for name, pts := range p.Segment {
		st, err := model.ParseSegmentType(name)
		if err != nil {
			return classification.Tables{}, fmt.Errorf("points.segment: %w", err)
		}
		override.Segment[st] = pts
	}
	return classification.DefaultTables().Merge(override), nil
}

// validate sets defaults and enforces required fields.
func (c *Config) validate() error {
	if c.General.Directory == "" {
		c.General.Directory = defaultDataDir
	}
	if c.General.Snapshot == "" {
		c.General.Snapshot = defaultSnapshot
	}

	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = defaultLogFormat
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log format '%s': must be 'console' or 'json'", c.Log.Format)
	}

	if c.Report.Directory == "" {
		c.Report.Directory = defaultReportDir
	}
	if c.Report.Format == "" {
		c.Report.Format = defaultReportFormat
	}
	// Validate format is one of the supported options
	if c.Report.Format != "markdown" && c.Report.Format != "csv" && c.Report.Format != "both" {
		return fmt.Errorf("invalid report format '%s': must be 'markdown', 'csv', or 'both'", c.Report.Format)
	}
	if c.Report.Delimiter == "" {
		c.Report.Delimiter = defaultDelimiter
	}
	if len([]rune(c.Report.Delimiter)) != 1 {
		return fmt.Errorf("report delimiter must be a single character, got %q", c.Report.Delimiter)
	}

	for _, table := range []map[string][]int{c.Points.Stage, c.Points.Segment} {
		for name, pts := range table {
			for _, v := range pts {
				if v < 0 {
					return fmt.Errorf("points table %s has negative value %d", name, v)
				}
			}
		}
	}
	if _, err := c.Points.Tables(); err != nil {
		return err
	}
	return nil
}

// Load reads the TOML file at path, decodes into Config, and
// applies any sensible defaults. It returns an error if parsing fails
// or if a value is out of range.
func Load(path string) (*Config, error) {
	// Make sure file exists
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}
