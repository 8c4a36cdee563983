package storage

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	"github.com/rotisserie/eris"

	"flood-reports/utils"
)

const postgresMigration = `
CREATE TABLE IF NOT EXISTS run_summaries (
	run_id            TEXT PRIMARY KEY,
	total_projects    INTEGER          NOT NULL,
	total_contractors INTEGER          NOT NULL,
	total_provinces   INTEGER          NOT NULL,
	global_avg_delay  DOUBLE PRECISION NOT NULL,
	total_savings     DOUBLE PRECISION NOT NULL,
	created_at        TIMESTAMPTZ      NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS projects (
	id                    SERIAL PRIMARY KEY,
	run_id                TEXT             NOT NULL,
	region                TEXT             NOT NULL,
	main_island           TEXT             NOT NULL,
	province              TEXT             NOT NULL DEFAULT '',
	funding_year          INTEGER          NOT NULL,
	type_of_work          TEXT             NOT NULL,
	contractor            TEXT             NOT NULL,
	approved_budget       DOUBLE PRECISION NOT NULL,
	contract_cost         DOUBLE PRECISION NOT NULL,
	cost_savings          DOUBLE PRECISION NOT NULL,
	start_date            TEXT,
	completion_date       TEXT,
	completion_delay_days INTEGER,
	latitude              DOUBLE PRECISION,
	longitude             DOUBLE PRECISION,
	coordinates_imputed   BOOLEAN          NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_projects_run_id     ON projects(run_id);
CREATE INDEX IF NOT EXISTS idx_projects_region     ON projects(region);
CREATE INDEX IF NOT EXISTS idx_projects_contractor ON projects(contractor);
`

// NewPostgresStore opens a connection to PostgreSQL, waiting for the server
// with back-off, runs schema migrations and returns a ready store.
func NewPostgresStore(ctx context.Context, dsn string, retry *utils.RetryConfig) (*SQLStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: open")
	}

	if retry == nil {
		retry = &utils.RetryConfig{MaxAttempts: 1}
	}
	err = retry.Do(ctx, "postgres ping", func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return db.PingContext(pingCtx)
	})
	if err != nil {
		db.Close()
		return nil, eris.Wrap(err, "postgres: connect")
	}

	if _, err := db.ExecContext(ctx, postgresMigration); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "postgres: migrate")
	}

	return newSQLStore(db, "postgres", sq.Dollar), nil
}
