package storage

import (
	"context"

	"flood-reports/models"
)

// ReportWriter is the interface any report file backend must satisfy.
type ReportWriter interface {
	WriteReport(report *models.Report) (string, error)
}

// RecordStore persists a run's filtered projects and summary.
type RecordStore interface {
	SaveRun(ctx context.Context, runID string, records []*models.ProcessedRecord, summary models.Summary) error
	Close() error
}
