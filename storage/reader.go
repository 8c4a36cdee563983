package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"flood-reports/models"
)

// ErrSourceNotFound is returned when the input dataset file does not exist.
var ErrSourceNotFound = eris.New("source file not found")

// ReadSource loads every row of the dataset at path. Files ending in .xlsx
// are read as workbooks (sheet selects the worksheet, first when blank);
// anything else is read as CSV. The whole file is materialised.
func ReadSource(ctx context.Context, path, sheet string) ([]*models.RawRecord, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, eris.Wrapf(ErrSourceNotFound, "read source %s", path)
		}
		return nil, eris.Wrapf(err, "read source: stat %s", path)
	}

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(ctx, path, sheet)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read source: open %s", path)
	}
	defer f.Close()

	return ReadCSV(ctx, f)
}

// ReadCSV parses a header-led CSV stream into raw records.
func ReadCSV(ctx context.Context, r io.Reader) ([]*models.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // short rows read as blank trailing fields
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.New("csv: missing header row")
	}
	if err != nil {
		return nil, eris.Wrap(err, "csv: read header")
	}

	cols, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var records []*models.RawRecord
	for {
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "csv: context cancelled")
		}
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "csv: read row")
		}
		records = append(records, cols.record(row))
	}
	return records, nil
}

// columnIndex maps each input column to its position in the source header.
type columnIndex map[string]int

func indexColumns(header []string) (columnIndex, error) {
	cols := make(columnIndex, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		cols[h] = i
	}

	var missing []string
	for _, want := range models.InputColumns {
		if _, ok := cols[want]; !ok {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return nil, eris.Errorf("source header missing columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func (c columnIndex) get(row []string, col string) string {
	i := c[col]
	if i >= len(row) {
		return ""
	}
	return row[i]
}

func (c columnIndex) record(row []string) *models.RawRecord {
	return &models.RawRecord{
		Region:               c.get(row, models.ColRegion),
		MainIsland:           c.get(row, models.ColMainIsland),
		FundingYear:          c.get(row, models.ColFundingYear),
		ApprovedBudget:       c.get(row, models.ColApprovedBudget),
		ContractCost:         c.get(row, models.ColContractCost),
		StartDate:            c.get(row, models.ColStartDate),
		ActualCompletionDate: c.get(row, models.ColActualCompletionDate),
		Latitude:             c.get(row, models.ColLatitude),
		Longitude:            c.get(row, models.ColLongitude),
		Province:             c.get(row, models.ColProvince),
		Contractor:           c.get(row, models.ColContractor),
		TypeOfWork:           c.get(row, models.ColTypeOfWork),
	}
}
