package storage

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/rotisserie/eris"

	"flood-reports/models"
	"flood-reports/utils"
)

const insertBatchSize = 50

var projectColumns = []string{
	"run_id", "region", "main_island", "province", "funding_year", "type_of_work", "contractor",
	"approved_budget", "contract_cost", "cost_savings", "start_date", "completion_date",
	"completion_delay_days", "latitude", "longitude", "coordinates_imputed",
}

// SQLStore writes runs through database/sql. The Postgres and SQLite
// backends differ only in driver, placeholder style and schema DDL.
type SQLStore struct {
	db      *sql.DB
	builder sq.StatementBuilderType
	dialect string
}

func newSQLStore(db *sql.DB, dialect string, ph sq.PlaceholderFormat) *SQLStore {
	return &SQLStore{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(ph),
		dialect: dialect,
	}
}

// OpenStore connects the configured backend. Driver "none" yields a nil store.
func OpenStore(ctx context.Context, driver, dsn string, retry *utils.RetryConfig) (*SQLStore, error) {
	switch driver {
	case "", "none":
		return nil, nil
	case "sqlite":
		return NewSQLiteStore(ctx, dsn)
	case "postgres":
		return NewPostgresStore(ctx, dsn, retry)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}

// Dialect names the backend.
func (s *SQLStore) Dialect() string {
	return s.dialect
}

// SaveRun replaces any previous rows for runID with records and summary in
// one transaction.
func (s *SQLStore) SaveRun(ctx context.Context, runID string, records []*models.ProcessedRecord, summary models.Summary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrapf(err, "%s: begin", s.dialect)
	}
	defer tx.Rollback()

	for _, table := range []string{"projects", "run_summaries"} {
		query, args, err := s.builder.Delete(table).Where(sq.Eq{"run_id": runID}).ToSql()
		if err != nil {
			return eris.Wrapf(err, "%s: build delete", s.dialect)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return eris.Wrapf(err, "%s: clear %s", s.dialect, table)
		}
	}

	query, args, err := s.summaryInsert(runID, summary)
	if err != nil {
		return eris.Wrapf(err, "%s: build summary insert", s.dialect)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return eris.Wrapf(err, "%s: insert summary", s.dialect)
	}

	for i := 0; i < len(records); i += insertBatchSize {
		end := min(i+insertBatchSize, len(records))
		query, args, err := s.projectInsert(runID, records[i:end])
		if err != nil {
			return eris.Wrapf(err, "%s: build project insert", s.dialect)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return eris.Wrapf(err, "%s: insert projects %d-%d", s.dialect, i, end)
		}
	}

	return eris.Wrapf(tx.Commit(), "%s: commit run %s", s.dialect, runID)
}

func (s *SQLStore) summaryInsert(runID string, summary models.Summary) (string, []any, error) {
	return s.builder.Insert("run_summaries").
		Columns("run_id", "total_projects", "total_contractors", "total_provinces",
			"global_avg_delay", "total_savings", "created_at").
		Values(runID, summary.TotalProjects, summary.TotalContractors, summary.TotalProvinces,
			summary.GlobalAvgDelay, summary.TotalSavings, time.Now().UTC()).
		ToSql()
}

func (s *SQLStore) projectInsert(runID string, batch []*models.ProcessedRecord) (string, []any, error) {
	ins := s.builder.Insert("projects").Columns(projectColumns...)
	for _, r := range batch {
		ins = ins.Values(
			runID, r.Region, r.MainIsland, r.Province, r.FundingYear, r.TypeOfWork, r.Contractor,
			r.ApprovedBudget, r.ContractCost, r.CostSavings,
			dateText(r.StartDate), dateText(r.ActualCompletionDate),
			nullInt(r.CompletionDelayDays), nullFloat(r.Latitude), nullFloat(r.Longitude),
			r.LatitudeImputed || r.LongitudeImputed,
		)
	}
	return ins.ToSql()
}

// FetchProjects returns the stored projects of a run in insertion order.
func (s *SQLStore) FetchProjects(ctx context.Context, runID string) ([]*models.ProcessedRecord, error) {
	query, args, err := s.builder.
		Select("region", "main_island", "province", "funding_year", "type_of_work", "contractor",
			"approved_budget", "contract_cost", "cost_savings", "start_date", "completion_date",
			"completion_delay_days", "latitude", "longitude").
		From("projects").
		Where(sq.Eq{"run_id": runID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, eris.Wrapf(err, "%s: build select", s.dialect)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "%s: fetch projects", s.dialect)
	}
	defer rows.Close()

	var out []*models.ProcessedRecord
	for rows.Next() {
		var (
			r                   models.ProcessedRecord
			start, completion   sql.NullString
			delay               sql.NullInt64
			latitude, longitude sql.NullFloat64
		)
		if err := rows.Scan(
			&r.Region, &r.MainIsland, &r.Province, &r.FundingYear, &r.TypeOfWork, &r.Contractor,
			&r.ApprovedBudget, &r.ContractCost, &r.CostSavings, &start, &completion,
			&delay, &latitude, &longitude,
		); err != nil {
			return nil, eris.Wrapf(err, "%s: scan project", s.dialect)
		}
		r.StartDate = parseDateText(start)
		r.ActualCompletionDate = parseDateText(completion)
		if delay.Valid {
			d := int(delay.Int64)
			r.CompletionDelayDays = &d
		}
		if latitude.Valid {
			r.Latitude = &latitude.Float64
		}
		if longitude.Valid {
			r.Longitude = &longitude.Float64
		}
		out = append(out, &r)
	}
	return out, eris.Wrapf(rows.Err(), "%s: iterate projects", s.dialect)
}

// FetchSummary returns the stored summary of a run.
func (s *SQLStore) FetchSummary(ctx context.Context, runID string) (models.Summary, error) {
	var sum models.Summary
	query, args, err := s.builder.
		Select("total_projects", "total_contractors", "total_provinces", "global_avg_delay", "total_savings").
		From("run_summaries").
		Where(sq.Eq{"run_id": runID}).
		ToSql()
	if err != nil {
		return sum, eris.Wrapf(err, "%s: build select", s.dialect)
	}
	err = s.db.QueryRowContext(ctx, query, args...).Scan(
		&sum.TotalProjects, &sum.TotalContractors, &sum.TotalProvinces, &sum.GlobalAvgDelay, &sum.TotalSavings,
	)
	if err != nil {
		return sum, eris.Wrapf(err, "%s: fetch summary %s", s.dialect, runID)
	}
	return sum, nil
}

// Close releases the connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func dateText(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format("2006-01-02"), Valid: true}
}

func parseDateText(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t, err := time.Parse("2006-01-02", s.String)
	if err != nil {
		return nil
	}
	return &t
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
