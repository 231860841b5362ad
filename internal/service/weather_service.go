package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/weatherapp/backend/internal/domain"
	"github.com/weatherapp/backend/pkg/logger"
)

// WeatherService fetches current conditions from OpenWeatherMap
type WeatherService struct {
	apiKey     string
	baseURL    string
	iconURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewWeatherService creates a new weather service. The HTTP client has no
// timeout of its own; callers bound requests through the context.
func NewWeatherService(apiKey, baseURL, iconURL string, log *logger.Logger) *WeatherService {
	return &WeatherService{
		apiKey:     apiKey,
		baseURL:    baseURL,
		iconURL:    strings.TrimRight(iconURL, "/"),
		httpClient: &http.Client{},
		logger:     log.Named("weather"),
	}
}

// OpenWeatherResponse represents the OpenWeatherMap API response.
// Pointers tell a missing field apart from a zero value.
type OpenWeatherResponse struct {
	Main struct {
		Temp     *float64 `json:"temp"`
		Humidity *int     `json:"humidity"`
		Pressure *int     `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		Main        string  `json:"main"`
		Description *string `json:"description"`
		Icon        *string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
	Name *string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
}

// FetchByName fetches current weather for a city. A blank city returns
// domain.ErrEmptyQuery without touching the network.
func (s *WeatherService) FetchByName(ctx context.Context, city string) (domain.Weather, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return domain.Weather{}, domain.ErrEmptyQuery
	}

	params := url.Values{}
	params.Set("q", city)

	body, err := s.get(ctx, params)
	if err != nil {
		s.logger.Warn("Name lookup failed", logger.String("city", city), logger.Error(err))
		return domain.Weather{}, domain.NotFound(err)
	}

	w, err := parseWeather(body)
	if err != nil {
		s.logger.Warn("Malformed provider payload", logger.String("city", city), logger.Error(err))
		return domain.Weather{}, domain.NetworkError(err)
	}
	return w, nil
}

// FetchByCoordinates fetches current weather for a position
func (s *WeatherService) FetchByCoordinates(ctx context.Context, lat, lon float64) (domain.Weather, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	body, err := s.get(ctx, params)
	if err != nil {
		s.logger.Warn("Coordinate lookup failed",
			logger.Float64("lat", lat),
			logger.Float64("lon", lon),
			logger.Error(err))
		return domain.Weather{}, domain.NetworkError(err)
	}

	w, err := parseWeather(body)
	if err != nil {
		s.logger.Warn("Malformed provider payload",
			logger.Float64("lat", lat),
			logger.Float64("lon", lon),
			logger.Error(err))
		return domain.Weather{}, domain.NetworkError(err)
	}
	return w, nil
}

// IconURL returns the image URL for a provider icon identifier
func (s *WeatherService) IconURL(icon string) string {
	if icon == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s@2x.png", s.iconURL, icon)
}

// get issues one GET with the common parameters and returns the raw body of
// a 2xx response
func (s *WeatherService) get(ctx context.Context, params url.Values) ([]byte, error) {
	params.Set("units", "metric")
	params.Set("appid", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("weather: failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("weather: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("weather: failed to read response: %w", err)
	}
	return body, nil
}

func parseWeather(body []byte) (domain.Weather, error) {
	var owResp OpenWeatherResponse
	if err := json.Unmarshal(body, &owResp); err != nil {
		return domain.Weather{}, fmt.Errorf("weather: failed to decode response: %w", err)
	}

	var missing []string
	if owResp.Name == nil {
		missing = append(missing, "name")
	}
	if len(owResp.Weather) == 0 {
		missing = append(missing, "weather[0]")
	} else {
		if owResp.Weather[0].Icon == nil {
			missing = append(missing, "weather[0].icon")
		}
		if owResp.Weather[0].Description == nil {
			missing = append(missing, "weather[0].description")
		}
	}
	if owResp.Main.Temp == nil {
		missing = append(missing, "main.temp")
	}
	if owResp.Main.Humidity == nil {
		missing = append(missing, "main.humidity")
	}
	if owResp.Main.Pressure == nil {
		missing = append(missing, "main.pressure")
	}
	if owResp.Wind.Speed == nil {
		missing = append(missing, "wind.speed")
	}
	if len(missing) > 0 {
		return domain.Weather{}, fmt.Errorf("weather: response missing %s", strings.Join(missing, ", "))
	}

	return domain.Weather{
		City:        *owResp.Name,
		Country:     owResp.Sys.Country,
		Condition:   owResp.Weather[0].Main,
		Description: *owResp.Weather[0].Description,
		Icon:        *owResp.Weather[0].Icon,
		Temperature: *owResp.Main.Temp,
		Humidity:    *owResp.Main.Humidity,
		Pressure:    *owResp.Main.Pressure,
		WindSpeed:   *owResp.Wind.Speed,
		Timestamp:   time.Now(),
	}, nil
}
