package service

import (
	"context"

	"github.com/weatherapp/backend/internal/domain"
)

// HistoryRepository is re-exported from domain for convenience
type HistoryRepository = domain.HistoryRepository

// WeatherFetcher is what the presentation layer needs from a weather client
type WeatherFetcher interface {
	FetchByName(ctx context.Context, city string) (domain.Weather, error)
	FetchByCoordinates(ctx context.Context, lat, lon float64) (domain.Weather, error)
	IconURL(icon string) string
}
