package domain

// Status is the presentation state of a session
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// View is a render-ready snapshot of a session. Weather and Error are never
// both set, and neither is set while loading.
type View struct {
	Status  Status       `json:"status"`
	Query   string       `json:"query"`
	Loading bool         `json:"loading"`
	Located bool         `json:"located"` // geolocation already attempted
	Weather *WeatherView `json:"weather,omitempty"`
	Error   *Failure     `json:"error,omitempty"`
}

// WeatherView holds display strings for one record
type WeatherView struct {
	City        string `json:"city"`
	Description string `json:"description"`
	IconURL     string `json:"icon_url"`
	Temperature string `json:"temperature"`
	Humidity    string `json:"humidity"`
	Pressure    string `json:"pressure"`
	WindSpeed   string `json:"wind_speed"`
}
