package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/weatherapp/backend/internal/domain"
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
	temperature DOUBLE PRECISION NOT NULL,
	humidity    INTEGER NOT NULL,
	pressure    INTEGER NOT NULL,
	wind_speed  DOUBLE PRECISION NOT NULL,
	observed_at TIMESTAMPTZ NOT NULL,
	fetched_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS weather_lookups_fetched_at_idx ON weather_lookups (fetched_at DESC);
`

// PostgresRepository implements domain.HistoryRepository
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Migrate creates the lookup table when missing
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres: failed to migrate: %w", err)
	}
	return nil
}

// SaveLookup persists a lookup to PostgreSQL
func (r *PostgresRepository) SaveLookup(ctx context.Context, l domain.Lookup) error {
	query := `
		INSERT INTO weather_lookups (
			id, query, source, city, country, condition, description, icon,
			temperature, humidity, pressure, wind_speed, observed_at, fetched_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	w := l.Weather
	_, err := r.pool.Exec(ctx, query,
		l.ID, l.Query, string(l.Source), w.City, w.Country, w.Condition, w.Description, w.Icon,
		w.Temperature, w.Humidity, w.Pressure, w.WindSpeed, w.Timestamp, l.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to save lookup: %w", err)
	}

	return nil
}

// RecentLookups retrieves the newest lookups from PostgreSQL
func (r *PostgresRepository) RecentLookups(ctx context.Context, limit int) ([]domain.Lookup, error) {
	query := `
		SELECT id, query, source, city, country, condition, description, icon,
			   temperature, humidity, pressure, wind_speed, observed_at, fetched_at
		FROM weather_lookups
		ORDER BY fetched_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query lookups: %w", err)
	}
	defer rows.Close()

	var results []domain.Lookup
	for rows.Next() {
		var (
			l      domain.Lookup
			source string
		)
		w := &l.Weather
		err := rows.Scan(
			&l.ID, &l.Query, &source, &w.City, &w.Country, &w.Condition, &w.Description, &w.Icon,
			&w.Temperature, &w.Humidity, &w.Pressure, &w.WindSpeed, &w.Timestamp, &l.FetchedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan lookup row: %w", err)
		}
		l.Source = domain.QueryKind(source)
		results = append(results, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to iterate lookups: %w", err)
	}

	return results, nil
}

// Health checks database connectivity
func (r *PostgresRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}
