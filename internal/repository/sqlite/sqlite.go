package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/weatherapp/backend/internal/domain"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS weather_lookups (
	id          TEXT PRIMARY KEY,
	query       TEXT NOT NULL,
	source      TEXT NOT NULL,
	city        TEXT NOT NULL,
	country     TEXT NOT NULL DEFAULT '',
	condition   TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL,
	icon        TEXT NOT NULL,
	temperature REAL NOT NULL,
	humidity    INTEGER NOT NULL,
	pressure    INTEGER NOT NULL,
	wind_speed  REAL NOT NULL,
	observed_at TEXT NOT NULL,
	fetched_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS weather_lookups_fetched_at_idx ON weather_lookups (fetched_at DESC);
`

// Repository implements domain.HistoryRepository on a SQLite file
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema
func Open(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open %s: %w", path, err)
	}
	// one writer keeps SQLite from returning SQLITE_BUSY under concurrent saves
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to migrate: %w", err)
	}
	return &Repository{db: db}, nil
}

// SaveLookup persists a lookup
func (r *Repository) SaveLookup(ctx context.Context, l domain.Lookup) error {
	query := `
		INSERT INTO weather_lookups (
			id, query, source, city, country, condition, description, icon,
			temperature, humidity, pressure, wind_speed, observed_at, fetched_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	w := l.Weather
	_, err := r.db.ExecContext(ctx, query,
		l.ID, l.Query, string(l.Source), w.City, w.Country, w.Condition, w.Description, w.Icon,
		w.Temperature, w.Humidity, w.Pressure, w.WindSpeed,
		w.Timestamp.UTC().Format(time.RFC3339Nano), l.FetchedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("sqlite: failed to save lookup: %w", err)
	}
	return nil
}

// RecentLookups returns up to limit lookups, newest first
func (r *Repository) RecentLookups(ctx context.Context, limit int) ([]domain.Lookup, error) {
	query := `
		SELECT id, query, source, city, country, condition, description, icon,
			   temperature, humidity, pressure, wind_speed, observed_at, fetched_at
		FROM weather_lookups
		ORDER BY fetched_at DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to query lookups: %w", err)
	}
	defer rows.Close()

	var results []domain.Lookup
	for rows.Next() {
		var (
			l                   domain.Lookup
			source              string
			observedAt, fetched string
		)
		w := &l.Weather
		err := rows.Scan(
			&l.ID, &l.Query, &source, &w.City, &w.Country, &w.Condition, &w.Description, &w.Icon,
			&w.Temperature, &w.Humidity, &w.Pressure, &w.WindSpeed, &observedAt, &fetched,
		)
		if err != nil {
			return nil, fmt.Errorf("sqlite: failed to scan lookup row: %w", err)
		}
		l.Source = domain.QueryKind(source)
		if w.Timestamp, err = time.Parse(time.RFC3339Nano, observedAt); err != nil {
			return nil, fmt.Errorf("sqlite: bad observed_at %q: %w", observedAt, err)
		}
		if l.FetchedAt, err = time.Parse(time.RFC3339Nano, fetched); err != nil {
			return nil, fmt.Errorf("sqlite: bad fetched_at %q: %w", fetched, err)
		}
		results = append(results, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: failed to iterate lookups: %w", err)
	}
	return results, nil
}

// Health checks database connectivity
func (r *Repository) Health(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite: health check failed: %w", err)
	}
	return nil
}

// Close closes the database
func (r *Repository) Close() error {
	return r.db.Close()
}
