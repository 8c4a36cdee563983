package storage

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS run_summaries (
	run_id            TEXT PRIMARY KEY,
	total_projects    INTEGER  NOT NULL,
	total_contractors INTEGER  NOT NULL,
	total_provinces   INTEGER  NOT NULL,
	global_avg_delay  REAL     NOT NULL,
	total_savings     REAL     NOT NULL,
	created_at        DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS projects (
	id                    INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id                TEXT    NOT NULL,
	region                TEXT    NOT NULL,
	main_island           TEXT    NOT NULL,
	province              TEXT    NOT NULL DEFAULT '',
	funding_year          INTEGER NOT NULL,
	type_of_work          TEXT    NOT NULL,
	contractor            TEXT    NOT NULL,
	approved_budget       REAL    NOT NULL,
	contract_cost         REAL    NOT NULL,
	cost_savings          REAL    NOT NULL,
	start_date            TEXT,
	completion_date       TEXT,
	completion_delay_days INTEGER,
	latitude              REAL,
	longitude             REAL,
	coordinates_imputed   INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_projects_run_id     ON projects(run_id);
CREATE INDEX IF NOT EXISTS idx_projects_region     ON projects(region);
CREATE INDEX IF NOT EXISTS idx_projects_contractor ON projects(contractor);
`

// NewSQLiteStore opens a SQLite database at dsn, configures WAL mode and
// runs schema migrations.
func NewSQLiteStore(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	// A single connection keeps ":memory:" databases shared across queries.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}

	if _, err := db.ExecContext(ctx, sqliteMigration); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "sqlite: migrate")
	}

	return newSQLStore(db, "sqlite", sq.Question), nil
}
