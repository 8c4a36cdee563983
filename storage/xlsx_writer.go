package storage

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"flood-reports/models"
)

// WorkbookFilename is the combined workbook written next to the CSV files.
const WorkbookFilename = "reports.xlsx"

const defaultSheet = "Sheet1"

// WriteWorkbook writes every report to its own sheet, named by sheetNames
// (falling back to the report name), plus a Summary sheet.
func WriteWorkbook(dir string, reports []*models.Report, sheetNames map[string]string, summary models.Summary) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", eris.Wrapf(err, "xlsx: create output dir %s", dir)
	}

	f := excelize.NewFile()
	defer f.Close()

	for _, r := range reports {
		name := sheetNames[r.Name]
		if name == "" {
			name = r.Name
		}
		rows := make([][]string, 0, len(r.Rows)+1)
		rows = append(rows, r.Headers)
		rows = append(rows, r.Records()...)
		if err := writeSheet(f, name, rows); err != nil {
			return "", err
		}
	}

	summaryRows := [][]any{
		{"total_projects", summary.TotalProjects},
		{"total_contractors", summary.TotalContractors},
		{"total_provinces", summary.TotalProvinces},
		{"global_avg_delay", summary.GlobalAvgDelay},
		{"total_savings", summary.TotalSavings},
	}
	if _, err := f.NewSheet("Summary"); err != nil {
		return "", eris.Wrap(err, "xlsx: add summary sheet")
	}
	for i, row := range summaryRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return "", eris.Wrap(err, "xlsx: cell name")
		}
		if err := f.SetSheetRow("Summary", cell, &row); err != nil {
			return "", eris.Wrap(err, "xlsx: write summary row")
		}
	}

	if err := f.DeleteSheet(defaultSheet); err != nil {
		return "", eris.Wrap(err, "xlsx: drop default sheet")
	}
	f.SetActiveSheet(0)

	path := filepath.Join(dir, WorkbookFilename)
	if err := f.SaveAs(path); err != nil {
		return "", eris.Wrapf(err, "xlsx: save %s", path)
	}
	return path, nil
}

func writeSheet(f *excelize.File, name string, rows [][]string) error {
	if _, err := f.NewSheet(name); err != nil {
		return eris.Wrapf(err, "xlsx: add sheet %s", name)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return eris.Wrap(err, "xlsx: cell name")
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return eris.Wrapf(err, "xlsx: write %s row %d", name, i+1)
		}
	}
	return nil
}
