package services

import (
	"context"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"flood-reports/models"
	"flood-reports/storage"
	"flood-reports/utils"
)

// MetricsFilename is the Prometheus textfile written next to the reports.
const MetricsFilename = "metrics.prom"

const manifestVersion = 1

// SheetNames maps report names to workbook tab names.
var SheetNames = map[string]string{
	ReportRegional:    "Regional",
	ReportContractors: "Contractors",
	ReportTrends:      "Trends",
}

// PublishOptions selects the optional outputs. The CSV reports and
// summary.json are always written.
type PublishOptions struct {
	Dir      string
	XLSX     bool
	GeoJSON  bool
	Manifest bool
	Metrics  bool
}

// Publisher writes a run's outputs to disk and, when a store is set, to the
// database.
type Publisher struct {
	opts    PublishOptions
	csv     storage.ReportWriter
	store   storage.RecordStore
	metrics *utils.Metrics
	logger  *zap.Logger
}

// NewPublisher creates the output directory. store and metrics may be nil.
func NewPublisher(opts PublishOptions, store storage.RecordStore, metrics *utils.Metrics, logger *zap.Logger) (*Publisher, error) {
	csvWriter, err := storage.NewCSVWriter(opts.Dir)
	if err != nil {
		return nil, err
	}
	return &Publisher{
		opts:    opts,
		csv:     csvWriter,
		store:   store,
		metrics: metrics,
		logger:  logger.Named("publisher"),
	}, nil
}

// Publish writes every enabled output for out and returns the file paths in
// write order.
func (p *Publisher) Publish(ctx context.Context, ds *models.Dataset, out *models.Output) ([]string, error) {
	var files []string
	for _, r := range out.Reports {
		path, err := p.csv.WriteReport(r)
		if err != nil {
			return files, err
		}
		p.logger.Info("report written", zap.String("report", r.Name), zap.String("path", path))
		files = append(files, path)
	}

	path, err := storage.WriteSummary(p.opts.Dir, out.Summary)
	if err != nil {
		return files, err
	}
	files = append(files, path)

	if p.opts.XLSX {
		path, err := storage.WriteWorkbook(p.opts.Dir, out.Reports, SheetNames, out.Summary)
		if err != nil {
			return files, err
		}
		files = append(files, path)
	}

	if p.opts.GeoJSON {
		path, err := storage.WriteGeoJSON(p.opts.Dir, ds.Records)
		if err != nil {
			return files, err
		}
		files = append(files, path)
	}

	if p.opts.Metrics && p.metrics != nil {
		path := filepath.Join(p.opts.Dir, MetricsFilename)
		if err := p.metrics.WriteTextfile(path); err != nil {
			return files, err
		}
		files = append(files, path)
	}

	if p.opts.Manifest {
		path, err := p.writeManifest(ds, out, files)
		if err != nil {
			return files, err
		}
		files = append(files, path)
	}

	if p.store != nil {
		if err := p.store.SaveRun(ctx, out.RunID, ds.Records, out.Summary); err != nil {
			return files, eris.Wrapf(err, "save run %s", out.RunID)
		}
		p.logger.Info("run stored", zap.String("run_id", out.RunID), zap.Int("projects", len(ds.Records)))
	}

	return files, nil
}

func (p *Publisher) writeManifest(ds *models.Dataset, out *models.Output, files []string) (string, error) {
	m := &storage.Manifest{
		Version:     manifestVersion,
		RunID:       out.RunID,
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
		Input:       ds.Source,
		Counts: storage.RunCounts{
			Raw:      ds.RawCount,
			Valid:    ds.ValidCount,
			Invalid:  len(ds.Errors),
			Filtered: len(ds.Records),
			Imputed:  ds.Imputed,
		},
	}
	for _, f := range files {
		if err := m.AddFile(f); err != nil {
			return "", err
		}
	}
	return m.Write(p.opts.Dir)
}
