package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/weatherapp/backend/internal/domain"
	"github.com/weatherapp/backend/pkg/logger"
)

// Resolver answers a single "where am I" question. Implementations resolve at
// most once per call and never watch or retry.
type Resolver interface {
	ResolveCurrentPosition(ctx context.Context) (domain.Coordinates, error)
}

// Browser-reported geolocation outcomes
const (
	PositionDenied      = "denied"
	PositionUnavailable = "unavailable"
	PositionTimeout     = "timeout"
	PositionUnsupported = "unsupported"
)

// Unsupported is the resolver for hosts without geolocation
type Unsupported struct{}

func (Unsupported) ResolveCurrentPosition(ctx context.Context) (domain.Coordinates, error) {
	return domain.Coordinates{}, domain.GeolocationUnsupported()
}

// Static always resolves to fixed coordinates
type Static struct {
	Position domain.Coordinates
}

func (s Static) ResolveCurrentPosition(ctx context.Context) (domain.Coordinates, error) {
	if !s.Position.Valid() {
		return domain.Coordinates{}, domain.LocationUnavailable(fmt.Errorf("geolocation: invalid static position %s", s.Position))
	}
	return s.Position, nil
}

// Reported replays the outcome of a browser geolocation call. Err holds the
// browser's error code when the lookup failed.
type Reported struct {
	Position domain.Coordinates
	Err      string
}

func (r Reported) ResolveCurrentPosition(ctx context.Context) (domain.Coordinates, error) {
	switch r.Err {
	case "":
	case PositionUnsupported:
		return domain.Coordinates{}, domain.GeolocationUnsupported()
	default:
		return domain.Coordinates{}, domain.LocationUnavailable(fmt.Errorf("geolocation: browser reported %q", r.Err))
	}
	if !r.Position.Valid() {
		return domain.Coordinates{}, domain.LocationUnavailable(fmt.Errorf("geolocation: reported position %s out of range", r.Position))
	}
	return r.Position, nil
}

// IPResolver locates the caller through an ip-api compatible endpoint
type IPResolver struct {
	endpoint   string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewIPResolver creates a resolver querying endpoint
func NewIPResolver(endpoint string, log *logger.Logger) *IPResolver {
	return &IPResolver{
		endpoint:   endpoint,
		httpClient: &http.Client{},
		logger:     log.Named("geolocation"),
	}
}

type ipAPIResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
	City    string   `json:"city"`
}

// ResolveCurrentPosition asks the endpoint for the position of the server's
// public address
func (r *IPResolver) ResolveCurrentPosition(ctx context.Context) (domain.Coordinates, error) {
	pos, err := r.lookup(ctx)
	if err != nil {
		r.logger.Warn("IP geolocation failed", logger.Error(err))
		return domain.Coordinates{}, domain.LocationUnavailable(err)
	}
	r.logger.Debug("IP geolocation resolved", logger.String("position", pos.String()))
	return pos, nil
}

func (r *IPResolver) lookup(ctx context.Context) (domain.Coordinates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint, nil)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geolocation: failed to create request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geolocation: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Coordinates{}, fmt.Errorf("geolocation: unexpected status %d", resp.StatusCode)
	}

	var body ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Coordinates{}, fmt.Errorf("geolocation: failed to decode response: %w", err)
	}
	if body.Status != "success" {
		return domain.Coordinates{}, fmt.Errorf("geolocation: lookup %s: %s", body.Status, body.Message)
	}
	if body.Lat == nil || body.Lon == nil {
		return domain.Coordinates{}, errors.New("geolocation: response missing lat/lon")
	}

	pos := domain.Coordinates{Latitude: *body.Lat, Longitude: *body.Lon}
	if !pos.Valid() {
		return domain.Coordinates{}, fmt.Errorf("geolocation: position %s out of range", pos)
	}
	return pos, nil
}
