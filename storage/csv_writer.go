package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"flood-reports/models"
)

// CSVWriter writes report tables as CSV files under one output directory.
type CSVWriter struct {
	dir string
}

// NewCSVWriter prepares dir, creating intermediate directories as needed.
func NewCSVWriter(dir string) (*CSVWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, eris.Wrapf(err, "csv: create output dir %s", dir)
	}
	return &CSVWriter{dir: dir}, nil
}

// WriteReport creates (or truncates) the report's file, writes the header
// row and every row in header order, and returns the file path.
func (c *CSVWriter) WriteReport(report *models.Report) (string, error) {
	path := filepath.Join(c.dir, report.Filename)

	f, err := os.Create(path)
	if err != nil {
		return "", eris.Wrapf(err, "csv: create file %q", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(report.Headers); err != nil {
		return "", eris.Wrap(err, "csv: write header")
	}
	if err := w.WriteAll(report.Records()); err != nil {
		return "", eris.Wrapf(err, "csv: write rows to %q", path)
	}

	if err := f.Close(); err != nil {
		return "", eris.Wrapf(err, "csv: close %q", path)
	}
	return path, nil
}
