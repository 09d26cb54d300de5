package reports

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MorganPeterson/cyclingportal/internal/configuration"
	"github.com/MorganPeterson/cyclingportal/internal/model"
	"github.com/MorganPeterson/cyclingportal/internal/portal"
)

func race(t *testing.T) (*portal.Portal, int) {
	t.Helper()
	p := portal.New()
	start := time.Date(2026, 7, 4, 12, 0, 0, 0, time.UTC)

	raceID, err := p.CreateRace("Tour", "July")
	require.NoError(t, err)
	stage, err := p.AddStageToRace(raceID, "Lille", "", 185, start, model.FLAT)
	require.NoError(t, err)
	_, err = p.AddCategorizedClimbToStage(stage, 100, model.C2, 5, 3)
	require.NoError(t, err)
	require.NoError(t, p.ConcludeStagePreparation(stage))

	team, err := p.CreateTeam("Visma", "")
	require.NoError(t, err)
	for i, name := range []string{"Jonas", "Wout"} {
		rider, err := p.CreateRider(team, name, 1996)
		require.NoError(t, err)
		d := time.Duration(i) * time.Minute
		require.NoError(t, p.RegisterRiderResultsInStage(stage, rider,
			start, start.Add(2*time.Hour-d), start.Add(4*time.Hour+d)))
	}
	return p, raceID
}

func TestRenderMarkdown(t *testing.T) {
	p, id := race(t)
	md, err := RenderMarkdown(id, p)
	require.NoError(t, err)

	assert.Contains(t, md, "# Tour")
	assert.Contains(t, md, "| 1 | Lille | FLAT | 2026-07-04 12:00 | 185.0 | 1 | 2 | Jonas |")
	assert.Contains(t, md, "| 1 | Jonas | Visma | 4:00:00.00 |")
	assert.Contains(t, md, "| 2 | Wout | Visma | 4:01:00.00 |")
	// Wout crests the climb first
	assert.Contains(t, md, "| 1 | Wout | Visma | 5 |")

	_, err = RenderMarkdown(42, p)
	assert.ErrorIs(t, err, portal.ErrNotFound)
}

func TestExportRaceReport(t *testing.T) {
	p, id := race(t)
	cfg := configuration.Default()
	cfg.Report.Directory = t.TempDir()
	cfg.Report.Format = "both"

	paths, err := ExportRaceReport(id, p, cfg)
	require.NoError(t, err)
	require.Len(t, paths, 4)
	assert.Equal(t, filepath.Join(cfg.Report.Directory, "1_tour.md"), paths[0])

	raw, err := os.ReadFile(filepath.Join(cfg.Report.Directory, "1_points_classification.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	assert.Equal(t, []string{
		"Race Id;Position;Rider;Team;Points",
		"1;1;Jonas;Visma;50",
		"1;2;Wout;Visma;30",
	}, lines)
}

func TestExportRaceReportCSVOnly(t *testing.T) {
	p, id := race(t)
	cfg := configuration.Default()
	cfg.Report.Directory = t.TempDir()
	cfg.Report.Format = "csv"
	cfg.Report.Delimiter = ","

	paths, err := ExportRaceReport(id, p, cfg)
	require.NoError(t, err)
	assert.Len(t, paths, 3)

	raw, err := os.ReadFile(filepath.Join(cfg.Report.Directory, "1_general_classification.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "1,1,Jonas,Visma,4:00:00.00")

	cfg.Report.Format = "pdf"
	_, err = ExportRaceReport(id, p, cfg)
	assert.Error(t, err)
}
