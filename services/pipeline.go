package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"flood-reports/models"
	"flood-reports/storage"
	"flood-reports/utils"
)

var (
	// ErrSourceNotFound means the input dataset file does not exist. It aborts a run.
	ErrSourceNotFound = storage.ErrSourceNotFound
	// ErrNoData means reports were requested with nothing loaded, or the
	// filtered dataset is empty. The caller can load again and retry.
	ErrNoData = eris.New("no data loaded")
)

// MaxReportedErrors is how many row errors ValidationErrorReport lists.
const MaxReportedErrors = 10

// PipelineOptions configures one pipeline.
type PipelineOptions struct {
	Window   YearRange
	Reports  ReportOptions
	Parallel bool
}

// Pipeline runs the load stages (validate, clean, derive, impute, filter)
// and the generate stage (three reports and the summary).
type Pipeline struct {
	opts    PipelineOptions
	cleaner *Cleaner
	imputer *Imputer
	reports *ReportService
	metrics *utils.Metrics
	logger  *zap.Logger
}

// NewPipeline wires the stage services. A nil metrics gets a fresh registry.
func NewPipeline(opts PipelineOptions, metrics *utils.Metrics, logger *zap.Logger) *Pipeline {
	if metrics == nil {
		metrics = utils.NewMetrics()
	}
	return &Pipeline{
		opts:    opts,
		cleaner: NewCleaner(logger),
		imputer: NewImputer(logger),
		reports: NewReportService(opts.Reports, logger),
		metrics: metrics,
		logger:  logger.Named("pipeline"),
	}
}

// Metrics returns the run counters.
func (p *Pipeline) Metrics() *utils.Metrics {
	return p.metrics
}

// Load reads the source file and processes it. Only a read failure is
// returned as an error; bad rows are reported in the Dataset.
func (p *Pipeline) Load(ctx context.Context, path, sheet string) (*models.Dataset, error) {
	p.logger.Info("reading source", zap.String("path", path))
	raw, err := storage.ReadSource(ctx, path, sheet)
	if err != nil {
		return nil, err
	}
	return p.Process(path, raw), nil
}

// Process runs validation, cleaning, derivation, imputation and the year
// filter, in that order, over the whole raw collection.
func (p *Pipeline) Process(source string, raw []*models.RawRecord) *models.Dataset {
	cleaned, rowErrs := p.cleaner.Clean(raw)
	processed := DeriveAll(cleaned)
	imputed := p.imputer.Impute(processed)
	filtered := FilterByYear(processed, p.opts.Window)

	p.metrics.ObserveLoad(len(raw), len(rowErrs), len(filtered), imputed)

	p.logger.Info("dataset processed",
		zap.Int("raw", len(raw)),
		zap.Int("valid", len(cleaned)),
		zap.Int("invalid", len(rowErrs)),
		zap.Int("filtered", len(filtered)),
		zap.Stringer("years", p.opts.Window),
	)

	return &models.Dataset{
		Source:     source,
		RawCount:   len(raw),
		ValidCount: len(cleaned),
		Errors:     rowErrs,
		Imputed:    imputed,
		Records:    filtered,
	}
}

// Generate builds the three reports and the summary from ds. The report
// generators only read ds.Records, so they run concurrently when enabled.
func (p *Pipeline) Generate(ctx context.Context, ds *models.Dataset) (*models.Output, error) {
	if ds.Empty() {
		return nil, ErrNoData
	}

	builders := []func([]*models.ProcessedRecord) (*models.Report, error){
		p.reports.Regional,
		p.reports.Contractors,
		p.reports.Trends,
	}
	reports := make([]*models.Report, len(builders))

	g, gCtx := errgroup.WithContext(ctx)
	if !p.opts.Parallel {
		g.SetLimit(1)
	}
	for i, build := range builders {
		i, build := i, build
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			r, err := build(ds.Records)
			if err != nil {
				return eris.Wrap(err, "generate report")
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, r := range reports {
		p.metrics.ReportRows.WithLabelValues(r.Name).Set(float64(len(r.Rows)))
	}

	out := &models.Output{
		RunID:   uuid.New().String(),
		Reports: reports,
		Summary: p.reports.Summary(ds.Records),
	}
	p.logger.Info("reports generated",
		zap.String("run_id", out.RunID),
		zap.Int("projects", out.Summary.TotalProjects),
	)
	return out, nil
}

// ValidationErrorReport lists the first limit row errors and how many more
// there are, followed by the valid-row count.
func ValidationErrorReport(ds *models.Dataset, limit int) string {
	if ds == nil || len(ds.Errors) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Validation errors detected: %d invalid records\n", len(ds.Errors))
	for i, e := range ds.Errors {
		if i == limit {
			fmt.Fprintf(&b, "  ... and %d more errors\n", len(ds.Errors)-limit)
			break
		}
		fmt.Fprintf(&b, "  - %s\n", e)
	}
	fmt.Fprintf(&b, "Valid records: %d out of %d\n", ds.ValidCount, ds.RawCount)
	return b.String()
}
