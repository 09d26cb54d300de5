package configuration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MorganPeterson/cyclingportal/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeFile(t, "config.toml", `
[general]
directory = "seasons"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "seasons", cfg.General.Directory)
	assert.Equal(t, "portal.ser", cfg.General.Snapshot)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "race_reports", cfg.Report.Directory)
	assert.Equal(t, "markdown", cfg.Report.Format)
	assert.Equal(t, ";", cfg.Report.Delimiter)
}

func TestLoadPointsOverrides(t *testing.T) {
	path := writeFile(t, "config.toml", `
[points.stage]
flat = [25, 20, 16]

[points.segment]
HC = [10, 5]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	tables, err := cfg.Points.Tables()
	require.NoError(t, err)
	assert.Equal(t, []int{25, 20, 16}, tables.StagePoints(model.FLAT))
	assert.Equal(t, []int{10, 5}, tables.SegmentPoints(model.HC))
	assert.Equal(t, []int{1}, tables.SegmentPoints(model.C4))
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"report format", "[report]\nformat = \"pdf\"\n", "invalid report format"},
		{"log format", "[log]\nformat = \"xml\"\n", "invalid log format"},
		{"delimiter", "[report]\ndelimiter = \";;\"\n", "single character"},
		{"negative points", "[points.stage]\nTT = [5, -1]\n", "negative"},
		{"unknown stage type", "[points.stage]\nCOBBLES = [5]\n", "unknown stage type"},
		{"broken toml", "[general\n", "parsing config file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "config.toml", tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

const raceToml = `
[race]
name = "Tour"
description = "July"

[[race.stages]]
name = "Lille"
length = 185.5
start = 2026-07-04T12:00:00Z
type = "FLAT"
conclude = true

[[race.stages.segments]]
type = "SPRINT"
location = 90.0

[[race.stages.segments]]
type = "C4"
location = 170.0
gradient = 4.5
length = 1.2

[[race.stages]]
name = "Chrono"
length = 30.0
start = 2026-07-05T13:00:00Z
type = "tt"
`

func TestDecodeRace(t *testing.T) {
	desc, err := DecodeRace(strings.NewReader(raceToml))
	require.NoError(t, err)

	r := desc.Race
	assert.Equal(t, "Tour", r.Name)
	require.Len(t, r.Stages, 2)
	assert.Equal(t, model.FLAT, r.Stages[0].Type)
	assert.True(t, r.Stages[0].Conclude)
	assert.Equal(t, time.Date(2026, 7, 4, 12, 0, 0, 0, time.UTC), r.Stages[0].Start.UTC())
	require.Len(t, r.Stages[0].Segments, 2)
	assert.Equal(t, model.C4, r.Stages[0].Segments[1].Type)
	assert.Equal(t, 4.5, r.Stages[0].Segments[1].Gradient)
	assert.Equal(t, model.TT, r.Stages[1].Type)
}

func TestDecodeRaceRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown key", "[race]\nname = \"Tour\"\nsponsor = \"x\"\n", "unknown race key"},
		{"missing name", "[race]\ndescription = \"x\"\n", "race.name"},
		{"bad stage type", "[race]\nname = \"Tour\"\n[[race.stages]]\nname = \"a\"\ntype = \"COBBLES\"\n", "parsing race file"},
		{"missing start", "[race]\nname = \"Tour\"\n[[race.stages]]\nname = \"a\"\ntype = \"FLAT\"\n", "start must be set"},
		{
			"segments on time trial",
			"[race]\nname = \"Tour\"\n[[race.stages]]\nname = \"a\"\ntype = \"TT\"\nstart = 2026-07-04T12:00:00Z\n" +
				"[[race.stages.segments]]\ntype = \"SPRINT\"\nlocation = 1.0\n",
			"time-trial",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRace(strings.NewReader(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadRace(t *testing.T) {
	desc, err := LoadRace(writeFile(t, "tour.toml", raceToml))
	require.NoError(t, err)
	assert.Len(t, desc.Race.Stages, 2)

	_, err = LoadRace(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
