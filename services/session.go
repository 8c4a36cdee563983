package services

import (
	"context"

	"go.uber.org/zap"

	"flood-reports/models"
)

// Session holds the dataset between a Load and any number of Generate calls.
type Session struct {
	pipeline *Pipeline
	path     string
	sheet    string
	dataset  *models.Dataset
	logger   *zap.Logger
}

// NewSession binds a pipeline to an input file.
func NewSession(pipeline *Pipeline, path, sheet string, logger *zap.Logger) *Session {
	return &Session{
		pipeline: pipeline,
		path:     path,
		sheet:    sheet,
		logger:   logger.Named("session"),
	}
}

// Load reads and processes the input file, replacing any previous dataset.
// On failure the previous dataset is kept.
func (s *Session) Load(ctx context.Context) (*models.Dataset, error) {
	ds, err := s.pipeline.Load(ctx, s.path, s.sheet)
	if err != nil {
		return nil, err
	}
	s.dataset = ds
	return ds, nil
}

// Loaded reports whether a non-empty dataset is held.
func (s *Session) Loaded() bool {
	return !s.dataset.Empty()
}

// Dataset returns the current dataset, which may be nil.
func (s *Session) Dataset() *models.Dataset {
	return s.dataset
}

// Generate builds reports from the loaded dataset. It returns ErrNoData
// until a Load has produced records.
func (s *Session) Generate(ctx context.Context) (*models.Output, error) {
	if !s.Loaded() {
		s.logger.Warn("generate requested without data")
		return nil, ErrNoData
	}
	return s.pipeline.Generate(ctx, s.dataset)
}
