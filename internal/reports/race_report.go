package reports

import (
	"bytes"
	"fmt"
	"strconv"
	"text/template"

	"github.com/MorganPeterson/cyclingportal/internal/classification"
	"github.com/MorganPeterson/cyclingportal/internal/configuration"
	"github.com/MorganPeterson/cyclingportal/internal/model"
	"github.com/MorganPeterson/cyclingportal/internal/parser"
	"github.com/MorganPeterson/cyclingportal/internal/portal"
)

// RaceReportData is what the race report template renders.
type RaceReportData struct {
	Race     model.Race
	Length   float64
	Stages   []StageLine
	General  []portal.Standing
	Points   []portal.Standing
	Mountain []portal.Standing
}

// StageLine summarises one stage of the race.
type StageLine struct {
	Stage    model.Stage
	Segments int
	Results  int
	Winner   string
}

var raceReportTmpl = template.Must(
	template.New("race_report.tmpl").
		Funcs(sharedFuncMap).
		ParseFS(tmplFS, "templates/race_report.tmpl"),
)

// ExportRaceReport writes the classifications of a race in the configured
// report format and returns the paths of the files written.
func ExportRaceReport(raceID int, p *portal.Portal, config *configuration.Config) ([]string, error) {
	data, err := collect(raceID, p)
	if err != nil {
		return nil, err
	}

	// Export based on configured format
	switch config.Report.Format {
	case "markdown":
		path, err := exportMarkdown(raceID, data, config)
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	case "csv":
		return exportCSV(raceID, data, config)
	case "both":
		path, err := exportMarkdown(raceID, data, config)
		if err != nil {
			return nil, err
		}
		paths, err := exportCSV(raceID, data, config)
		if err != nil {
			return nil, err
		}
		return append([]string{path}, paths...), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", config.Report.Format)
	}
}

// RenderMarkdown renders the markdown race report without writing it.
func RenderMarkdown(raceID int, p *portal.Portal) (string, error) {
	data, err := collect(raceID, p)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := raceReportTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func collect(raceID int, p *portal.Portal) (RaceReportData, error) {
	race, err := p.Race(raceID)
	if err != nil {
		return RaceReportData{}, err
	}
	length, err := p.RaceLength(raceID)
	if err != nil {
		return RaceReportData{}, err
	}
	data := RaceReportData{Race: race, Length: length}

	for _, sid := range race.StageIDs {
		st, err := p.Stage(sid)
		if err != nil {
			return RaceReportData{}, err
		}
		line := StageLine{Stage: st, Segments: len(st.SegmentIDs), Results: len(st.ResultIDs)}
		ranked, err := p.RidersRankInStage(sid)
		if err != nil {
			return RaceReportData{}, err
		}
		if len(ranked) > 0 {
			if winner, err := p.Rider(ranked[0]); err == nil {
				line.Winner = winner.Name
			}
		}
		data.Stages = append(data.Stages, line)
	}

	if data.General, err = p.Classification(raceID, classification.AdjustedTime); err != nil {
		return RaceReportData{}, fmt.Errorf("general classification: %w", err)
	}
	if data.Points, err = p.Classification(raceID, classification.Points); err != nil {
		return RaceReportData{}, fmt.Errorf("points classification: %w", err)
	}
	if data.Mountain, err = p.Classification(raceID, classification.MountainPoints); err != nil {
		return RaceReportData{}, fmt.Errorf("mountain classification: %w", err)
	}
	return data, nil
}

func exportMarkdown(raceID int, data RaceReportData, config *configuration.Config) (string, error) {
	var buf bytes.Buffer
	if err := raceReportTmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	// create file name and write markdown
	fileName := fmt.Sprintf("%d_%s.%s", raceID, parser.Slugify(data.Race.Name), "md")
	return writeMarkdown(fileName, buf, config)
}

func exportCSV(raceID int, data RaceReportData, config *configuration.Config) ([]string, error) {
	id := strconv.Itoa(raceID)
	tables := []struct {
		name   string
		header []string
		rows   []portal.Standing
		value  func(portal.Standing) string
	}{
		{"general_classification", []string{"Race Id", "Position", "Rider", "Team", "Time"}, data.General,
			func(s portal.Standing) string { return parser.FmtDuration(s.AdjustedTime) }},
		{"points_classification", []string{"Race Id", "Position", "Rider", "Team", "Points"}, data.Points,
			func(s portal.Standing) string { return strconv.Itoa(s.Points) }},
		{"mountain_classification", []string{"Race Id", "Position", "Rider", "Team", "Points"}, data.Mountain,
			func(s portal.Standing) string { return strconv.Itoa(s.MountainPoints) }},
	}

	paths := make([]string, 0, len(tables))
	for _, t := range tables {
		records := [][]string{t.header}
		for i, s := range t.rows {
			records = append(records, []string{id, strconv.Itoa(i + 1), s.RiderName, s.TeamName, t.value(s)})
		}
		path, err := writeCSV(fmt.Sprintf("%d_%s.%s", raceID, t.name, "csv"), records, config)
		if err != nil {
			return nil, fmt.Errorf("Failed to write CSV: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
