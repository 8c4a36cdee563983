package services

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"flood-reports/models"
)

const (
	notAvailable = "N/A"
	dateLayout   = "2006-01-02"
	// Line 1 of the source is the header.
	headerOffset = 2
)

// Cleaner transforms RawRecords into typed CleanedRecords.
type Cleaner struct {
	logger *zap.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *zap.Logger) *Cleaner {
	return &Cleaner{logger: logger.Named("cleaner")}
}

// Clean validates and converts every raw row. Rows that fail validation, or
// whose required amounts do not parse, are dropped and reported as RowErrors.
func (c *Cleaner) Clean(raw []*models.RawRecord) ([]*models.CleanedRecord, []models.RowError) {
	result := make([]*models.CleanedRecord, 0, len(raw))
	var rowErrs []models.RowError

	for i, r := range raw {
		row := i + headerOffset

		v := ValidateRecord(r)
		if !v.IsValid {
			c.logger.Debug("dropping invalid row", zap.Int("row", row), zap.Strings("errors", v.Errors))
			rowErrs = append(rowErrs, models.RowError{Row: row, Messages: v.Errors})
			continue
		}

		cleaned, problems := CleanRecord(r)
		if len(problems) > 0 {
			c.logger.Debug("dropping unparseable row", zap.Int("row", row), zap.Strings("errors", problems))
			rowErrs = append(rowErrs, models.RowError{Row: row, Messages: problems})
			continue
		}
		result = append(result, cleaned)
	}

	c.logger.Info("cleaned records",
		zap.Int("raw", len(raw)),
		zap.Int("valid", len(result)),
		zap.Int("dropped", len(raw)-len(result)),
	)
	return result, rowErrs
}

// CleanRecord converts a record that already passed ValidateRecord. It
// returns the parse problems instead of a record when a required amount
// cannot be read as a number.
func CleanRecord(r *models.RawRecord) (*models.CleanedRecord, []string) {
	var problems []string

	year, ok := parseFundingYear(r.FundingYear)
	if !ok {
		problems = append(problems, "Invalid FundingYear: "+r.FundingYear)
	}
	budget, ok := ParseNumber(r.ApprovedBudget)
	if !ok {
		problems = append(problems, "Invalid "+models.ColApprovedBudget+": "+r.ApprovedBudget)
	}
	cost, ok := ParseNumber(r.ContractCost)
	if !ok {
		problems = append(problems, "Invalid "+models.ColContractCost+": "+r.ContractCost)
	}
	if len(problems) > 0 {
		return nil, problems
	}

	return &models.CleanedRecord{
		Region:               normaliseText(r.Region),
		MainIsland:           normaliseText(r.MainIsland),
		FundingYear:          year,
		ApprovedBudget:       budget,
		ContractCost:         cost,
		StartDate:            optionalDate(r.StartDate),
		ActualCompletionDate: optionalDate(r.ActualCompletionDate),
		Latitude:             optionalNumber(r.Latitude),
		Longitude:            optionalNumber(r.Longitude),
		Province:             normaliseText(r.Province),
		Contractor:           orUnknown(r.Contractor),
		TypeOfWork:           orUnknown(r.TypeOfWork),
	}, nil
}

// ParseNumber reads an amount such as " 1,234.50 ". Blank text, "N/A" and
// anything that is not a finite number report ok == false.
func ParseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if s == "" || s == notAvailable {
		return 0, false
	}
	val, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, false
	}
	return val, true
}

// ParseDate reads a strict YYYY-MM-DD date.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || s == notAvailable || len(s) != len(dateLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func optionalNumber(raw string) *float64 {
	val, ok := ParseNumber(raw)
	if !ok {
		return nil
	}
	return &val
}

func optionalDate(raw string) *time.Time {
	t, ok := ParseDate(raw)
	if !ok {
		return nil
	}
	return &t
}

func orUnknown(s string) string {
	s = normaliseText(s)
	if s == "" {
		return models.UnknownLabel
	}
	return s
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	fields := strings.FieldsFunc(s, unicode.IsSpace)
	return strings.Join(fields, " ")
}
