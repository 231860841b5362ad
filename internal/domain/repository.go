package domain

import (
	"context"
	"time"
)

// Lookup is one successful fetch kept in history
type Lookup struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Source    QueryKind `json:"source"`
	Weather   Weather   `json:"weather"`
	FetchedAt time.Time `json:"fetched_at"`
}

// HistoryRepository defines the interface for lookup persistence.
// The domain defines it; repository packages implement it.
type HistoryRepository interface {
	// SaveLookup persists a successful lookup
	SaveLookup(ctx context.Context, l Lookup) error

	// RecentLookups returns up to limit lookups, newest first
	RecentLookups(ctx context.Context, limit int) ([]Lookup, error)

	// Health checks storage connectivity
	Health(ctx context.Context) error
}
