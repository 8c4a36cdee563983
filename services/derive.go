package services

import (
	"time"

	"flood-reports/models"
)

// Derive attaches cost savings and completion delay to a cleaned record.
func Derive(c *models.CleanedRecord) *models.ProcessedRecord {
	return &models.ProcessedRecord{
		CleanedRecord:       *c,
		CostSavings:         c.ApprovedBudget - c.ContractCost,
		CompletionDelayDays: completionDelay(c.StartDate, c.ActualCompletionDate),
	}
}

// DeriveAll maps Derive over records.
func DeriveAll(cleaned []*models.CleanedRecord) []*models.ProcessedRecord {
	out := make([]*models.ProcessedRecord, len(cleaned))
	for i, c := range cleaned {
		out[i] = Derive(c)
	}
	return out
}

// completionDelay is the calendar-day distance from start to completion, or
// nil when either date is unknown. Early completion yields a negative delay.
func completionDelay(start, completion *time.Time) *int {
	if start == nil || completion == nil {
		return nil
	}
	// Both dates are UTC midnights. time.Duration saturates past ~292 years.
	days := int((completion.Unix() - start.Unix()) / 86400)
	return &days
}
