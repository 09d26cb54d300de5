package reports

import (
	"bytes"
	"embed"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/MorganPeterson/cyclingportal/internal/configuration"
	"github.com/MorganPeterson/cyclingportal/internal/parser"
)

//go:embed templates/*.tmpl
var tmplFS embed.FS

var sharedFuncMap = template.FuncMap{
	"add":         func(a, b int) int { return a + b },
	"fmtDuration": parser.FmtDuration,
}

// writeMarkdown writes buf to fileName inside the report directory and
// returns the full path.
func writeMarkdown(fileName string, buf bytes.Buffer, config *configuration.Config) (string, error) {
	if err := os.MkdirAll(config.Report.Directory, 0o755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}
	path := filepath.Join(config.Report.Directory, fileName)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// writeCSV writes records to fileName inside the report directory using the
// configured delimiter and returns the full path.
func writeCSV(fileName string, records [][]string, config *configuration.Config) (path string, err error) {
	if err := os.MkdirAll(config.Report.Directory, 0o755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}
	path = filepath.Join(config.Report.Directory, fileName)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(f)
	w.Comma = []rune(config.Report.Delimiter)[0]
	if err := w.WriteAll(records); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
