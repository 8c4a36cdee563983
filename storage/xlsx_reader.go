package storage

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"flood-reports/models"
)

// ReadXLSX reads raw records from a workbook. The first row of the sheet is
// the header. sheet names the worksheet; blank means the first one.
func ReadXLSX(ctx context.Context, path, sheet string) ([]*models.RawRecord, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}

	s, err := pickSheet(f, sheet)
	if err != nil {
		return nil, err
	}
	if len(s.Rows) == 0 {
		return nil, eris.New("xlsx: missing header row")
	}

	cols, err := indexColumns(rowToStrings(s.Rows[0]))
	if err != nil {
		return nil, err
	}

	records := make([]*models.RawRecord, 0, len(s.Rows)-1)
	for _, row := range s.Rows[1:] {
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "xlsx: context cancelled")
		}
		if row == nil {
			continue
		}
		records = append(records, cols.record(rowToStrings(row)))
	}
	return records, nil
}

func pickSheet(f *xlsx.File, name string) (*xlsx.Sheet, error) {
	if name != "" {
		s, ok := f.Sheet[name]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", name)
		}
		return s, nil
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("xlsx: workbook has no sheets")
	}
	return f.Sheets[0], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
