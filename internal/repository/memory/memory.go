package memory

import (
	"context"
	"sync"

	"github.com/weatherapp/backend/internal/domain"
)

// maxLookups bounds the in-memory history
const maxLookups = 100

// Repository implements domain.HistoryRepository without a database. Used
// when no storage is configured and in tests.
type Repository struct {
	mu      sync.RWMutex
	lookups []domain.Lookup // oldest first
}

// NewRepository creates a new in-memory repository
func NewRepository() *Repository {
	return &Repository{}
}

// SaveLookup appends a lookup, dropping the oldest past maxLookups
func (r *Repository) SaveLookup(ctx context.Context, l domain.Lookup) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lookups = append(r.lookups, l)
	if len(r.lookups) > maxLookups {
		r.lookups = r.lookups[len(r.lookups)-maxLookups:]
	}
	return nil
}

// RecentLookups returns up to limit lookups, newest first
func (r *Repository) RecentLookups(ctx context.Context, limit int) ([]domain.Lookup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.lookups)
	if limit > n || limit <= 0 {
		limit = n
	}
	out := make([]domain.Lookup, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, r.lookups[i])
	}
	return out, nil
}

// Health always returns nil
func (r *Repository) Health(ctx context.Context) error {
	return nil
}
