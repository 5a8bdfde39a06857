package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:claritas.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/claritas?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  display_name TEXT NOT NULL DEFAULT '',
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS user_courses (
  id TEXT PRIMARY KEY,
  auth_id TEXT NOT NULL,
  course_id TEXT NOT NULL,
  course_title TEXT NOT NULL,
  course_description TEXT NOT NULL DEFAULT '',
  skill_level TEXT NOT NULL DEFAULT '',
  age_group TEXT NOT NULL DEFAULT '',
  estimated_duration TEXT NOT NULL DEFAULT '',
  completed_topics TEXT NOT NULL DEFAULT '[]',
  last_visited TEXT NOT NULL DEFAULT '',
  is_completed INTEGER NOT NULL DEFAULT 0,
  enrolled_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL,
  UNIQUE (auth_id, course_id)
);

CREATE TABLE IF NOT EXISTS quiz_attempts (
  id TEXT PRIMARY KEY,
  auth_id TEXT NOT NULL,
  course_id TEXT NOT NULL,
  unit_number INTEGER NOT NULL,
  attempt_number INTEGER NOT NULL,
  mcq_score INTEGER NOT NULL,
  mcq_total INTEGER NOT NULL,
  frq_score REAL NOT NULL,
  frq_total REAL NOT NULL,
  total_score REAL NOT NULL,
  total_possible REAL NOT NULL,
  percentage REAL NOT NULL,
  passed INTEGER NOT NULL,
  mcq_results_json TEXT NOT NULL DEFAULT '[]',
  frq_evaluations_json TEXT NOT NULL DEFAULT '[]',
  weak_subtopics_json TEXT NOT NULL DEFAULT '[]',
  overall_feedback TEXT NOT NULL DEFAULT '',
  created_at INTEGER NOT NULL,
  UNIQUE (auth_id, course_id, unit_number, attempt_number)
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  display_name TEXT NOT NULL DEFAULT '',
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS user_courses (
  id TEXT PRIMARY KEY,
  auth_id TEXT NOT NULL,
  course_id TEXT NOT NULL,
  course_title TEXT NOT NULL,
  course_description TEXT NOT NULL DEFAULT '',
  skill_level TEXT NOT NULL DEFAULT '',
  age_group TEXT NOT NULL DEFAULT '',
  estimated_duration TEXT NOT NULL DEFAULT '',
  completed_topics TEXT NOT NULL DEFAULT '[]',
  last_visited TEXT NOT NULL DEFAULT '',
  is_completed BOOLEAN NOT NULL DEFAULT FALSE,
  enrolled_at BIGINT NOT NULL,
  updated_at BIGINT NOT NULL,
  UNIQUE (auth_id, course_id)
);

CREATE TABLE IF NOT EXISTS quiz_attempts (
  id TEXT PRIMARY KEY,
  auth_id TEXT NOT NULL,
  course_id TEXT NOT NULL,
  unit_number INTEGER NOT NULL,
  attempt_number INTEGER NOT NULL,
  mcq_score INTEGER NOT NULL,
  mcq_total INTEGER NOT NULL,
  frq_score DOUBLE PRECISION NOT NULL,
  frq_total DOUBLE PRECISION NOT NULL,
  total_score DOUBLE PRECISION NOT NULL,
  total_possible DOUBLE PRECISION NOT NULL,
  percentage DOUBLE PRECISION NOT NULL,
  passed BOOLEAN NOT NULL,
  mcq_results_json TEXT NOT NULL DEFAULT '[]',
  frq_evaluations_json TEXT NOT NULL DEFAULT '[]',
  weak_subtopics_json TEXT NOT NULL DEFAULT '[]',
  overall_feedback TEXT NOT NULL DEFAULT '',
  created_at BIGINT NOT NULL,
  UNIQUE (auth_id, course_id, unit_number, attempt_number)
);
`
