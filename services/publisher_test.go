package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"flood-reports/models"
	"flood-reports/storage"
)

type recordingStore struct {
	runID   string
	records int
	summary models.Summary
	err     error
}

func (s *recordingStore) SaveRun(_ context.Context, runID string, records []*models.ProcessedRecord, summary models.Summary) error {
	s.runID = runID
	s.records = len(records)
	s.summary = summary
	return s.err
}

func (s *recordingStore) Close() error { return nil }

func generateSample(t *testing.T) (*Pipeline, *models.Dataset, *models.Output) {
	t.Helper()
	p := newTestPipeline(true)
	ds := p.Process("inline.csv", threeRowDataset())
	out, err := p.Generate(context.Background(), ds)
	require.NoError(t, err)
	return p, ds, out
}

func TestPublisherWritesEverything(t *testing.T) {
	p, ds, out := generateSample(t)
	dir := filepath.Join(t.TempDir(), "output")
	store := &recordingStore{}

	pub, err := NewPublisher(PublishOptions{
		Dir: dir, XLSX: true, GeoJSON: true, Manifest: true, Metrics: true,
	}, store, p.Metrics(), zap.NewNop())
	require.NoError(t, err)

	files, err := pub.Publish(context.Background(), ds, out)
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		assert.FileExists(t, f)
		names = append(names, filepath.Base(f))
	}
	assert.Equal(t, []string{
		"report1_regional_efficiency.csv",
		"report2_contractor_ranking.csv",
		"report3_cost_overrun_trends.csv",
		storage.SummaryFilename,
		storage.WorkbookFilename,
		storage.GeoJSONFilename,
		MetricsFilename,
		storage.ManifestFilename,
	}, names)

	m, err := storage.ReadManifest(filepath.Join(dir, storage.ManifestFilename))
	require.NoError(t, err)
	assert.Equal(t, out.RunID, m.RunID)
	assert.Equal(t, "inline.csv", m.Input)
	assert.Equal(t, storage.RunCounts{Raw: 3, Valid: 2, Invalid: 1, Filtered: 2}, m.Counts)
	assert.Len(t, m.Files, 7)

	assert.Equal(t, out.RunID, store.runID)
	assert.Equal(t, 2, store.records)
	assert.Equal(t, out.Summary, store.summary)

	prom, err := os.ReadFile(filepath.Join(dir, MetricsFilename))
	require.NoError(t, err)
	assert.Contains(t, string(prom), "floodreports_rows_read 3")
}

func TestPublisherMinimalOutputs(t *testing.T) {
	_, ds, out := generateSample(t)
	dir := t.TempDir()

	pub, err := NewPublisher(PublishOptions{Dir: dir}, nil, nil, zap.NewNop())
	require.NoError(t, err)

	files, err := pub.Publish(context.Background(), ds, out)
	require.NoError(t, err)
	assert.Len(t, files, 4)
	assert.NoFileExists(t, filepath.Join(dir, storage.WorkbookFilename))
	assert.NoFileExists(t, filepath.Join(dir, storage.ManifestFilename))
}

func TestPublisherStoreFailure(t *testing.T) {
	_, ds, out := generateSample(t)
	boom := errors.New("db down")

	pub, err := NewPublisher(PublishOptions{Dir: t.TempDir()}, &recordingStore{err: boom}, nil, zap.NewNop())
	require.NoError(t, err)

	_, err = pub.Publish(context.Background(), ds, out)
	assert.ErrorIs(t, err, boom)
}
