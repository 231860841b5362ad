package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/weatherapp/backend/internal/domain"
)

func TestSaveAndRecentLookups(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	r, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer r.Close()

	ctx := context.Background()
	base := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	older := domain.Lookup{
		ID:     "a1",
		Query:  "Almaty",
		Source: domain.QueryByName,
		Weather: domain.Weather{
			City: "Almaty", Country: "KZ", Condition: "Clouds", Description: "overcast clouds", Icon: "04d",
			Temperature: -5.2, Humidity: 72, Pressure: 1020, WindSpeed: 3.5, Timestamp: base,
		},
		FetchedAt: base,
	}
	newer := domain.Lookup{
		ID:     "b2",
		Query:  "51.5000,-0.1200",
		Source: domain.QueryByCoordinates,
		Weather: domain.Weather{
			City: "London", Condition: "Clear", Description: "clear sky", Icon: "01d",
			Temperature: 15.2, Humidity: 60, Pressure: 1012, WindSpeed: 3.1, Timestamp: base.Add(time.Minute),
		},
		FetchedAt: base.Add(time.Minute),
	}

	for _, l := range []domain.Lookup{older, newer} {
		if err := r.SaveLookup(ctx, l); err != nil {
			t.Fatalf("SaveLookup(%s) failed: %v", l.ID, err)
		}
	}

	got, err := r.RecentLookups(ctx, 10)
	if err != nil {
		t.Fatalf("RecentLookups failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 lookups, got %d", len(got))
	}
	if got[0].ID != "b2" || got[1].ID != "a1" {
		t.Fatalf("expected newest first, got %s then %s", got[0].ID, got[1].ID)
	}
	if got[0].Source != domain.QueryByCoordinates {
		t.Errorf("expected source coordinates, got %s", got[0].Source)
	}
	if got[1].Weather.Temperature != -5.2 || got[1].Weather.Pressure != 1020 {
		t.Errorf("unexpected weather round trip: %+v", got[1].Weather)
	}
	if !got[0].FetchedAt.Equal(newer.FetchedAt) {
		t.Errorf("fetched_at differs: got %v want %v", got[0].FetchedAt, newer.FetchedAt)
	}

	limited, err := r.RecentLookups(ctx, 1)
	if err != nil {
		t.Fatalf("RecentLookups(1) failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected limit to apply, got %d", len(limited))
	}

	if err := r.Health(ctx); err != nil {
		t.Errorf("Health failed: %v", err)
	}
}

func TestSaveLookupDuplicateID(t *testing.T) {
	r, err := Open(filepath.Join(t.TempDir(), "dup.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer r.Close()

	l := domain.Lookup{ID: "same", Query: "Paris", Source: domain.QueryByName, FetchedAt: time.Now()}
	if err := r.SaveLookup(context.Background(), l); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if err := r.SaveLookup(context.Background(), l); err == nil {
		t.Fatal("expected primary key violation on second save")
	}
}
