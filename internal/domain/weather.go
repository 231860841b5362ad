package domain

import "time"

// Weather is the normalized set of display fields from one provider response.
// Sessions replace it wholesale; nothing mutates a record after parsing.
type Weather struct {
	City        string    `json:"city"`
	Country     string    `json:"country,omitempty"`
	Condition   string    `json:"condition"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Temperature float64   `json:"temperature"`
	Humidity    int       `json:"humidity"`
	Pressure    int       `json:"pressure"`
	WindSpeed   float64   `json:"wind_speed"`
	Timestamp   time.Time `json:"timestamp"`
}

// WeatherResponse wraps weather data with metadata
type WeatherResponse struct {
	Data    Weather `json:"data"`
	IconURL string  `json:"icon_url"`
	Success bool    `json:"success"`
	Message string  `json:"message,omitempty"`
}
