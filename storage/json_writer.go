package storage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"flood-reports/models"
)

// SummaryFilename is the file the summary digest is written to.
const SummaryFilename = "summary.json"

// WriteSummary writes the summary as indented JSON into dir.
func WriteSummary(dir string, summary models.Summary) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", eris.Wrapf(err, "json: create output dir %s", dir)
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "json: marshal summary")
	}

	path := filepath.Join(dir, SummaryFilename)
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return "", eris.Wrapf(err, "json: write %s", path)
	}
	return path, nil
}
