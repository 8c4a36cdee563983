package services

import (
	"go.uber.org/zap"

	"flood-reports/models"
)

// Report names, used as keys in logs, metrics and workbook sheets.
const (
	ReportRegional    = "regional"
	ReportContractors = "contractors"
	ReportTrends      = "trends"
)

// ReportOptions tunes the generators.
type ReportOptions struct {
	BaselineYear          int
	MinContractorProjects int
	TopContractors        int
}

// DefaultReportOptions matches the published report definitions.
func DefaultReportOptions() ReportOptions {
	return ReportOptions{
		BaselineYear:          2021,
		MinContractorProjects: 5,
		TopContractors:        15,
	}
}

// ReportService turns a filtered dataset into report tables and a summary.
// Every method is a pure function of its input and safe to call
// concurrently on the same records.
type ReportService struct {
	opts   ReportOptions
	logger *zap.Logger
}

// NewReportService creates a ReportService.
func NewReportService(opts ReportOptions, logger *zap.Logger) *ReportService {
	return &ReportService{opts: opts, logger: logger.Named("reports")}
}

// group is one bucket of records sharing a key, kept in first-seen order.
type group[K comparable] struct {
	key     K
	records []*models.ProcessedRecord
}

// groupBy buckets records by key, preserving the order in which keys first
// appear so later stable sorts break ties by dataset order.
func groupBy[K comparable](records []*models.ProcessedRecord, key func(*models.ProcessedRecord) K) []*group[K] {
	index := make(map[K]*group[K])
	var out []*group[K]
	for _, r := range records {
		k := key(r)
		g, ok := index[k]
		if !ok {
			g = &group[K]{key: k}
			index[k] = g
			out = append(out, g)
		}
		g.records = append(g.records, r)
	}
	return out
}
