package services

import (
	"fmt"

	"flood-reports/models"
)

// YearRange is an inclusive funding-year window.
type YearRange struct {
	Start int
	End   int
}

// Contains reports whether year lies inside the window.
func (y YearRange) Contains(year int) bool {
	return year >= y.Start && year <= y.End
}

func (y YearRange) String() string {
	return fmt.Sprintf("%d-%d", y.Start, y.End)
}

// FilterByYear keeps the records whose funding year lies in window, in order.
func FilterByYear(records []*models.ProcessedRecord, window YearRange) []*models.ProcessedRecord {
	out := make([]*models.ProcessedRecord, 0, len(records))
	for _, r := range records {
		if window.Contains(r.FundingYear) {
			out = append(out, r)
		}
	}
	return out
}
