package domain

import (
	"fmt"
	"strings"
)

// Coordinates is a WGS84 position in decimal degrees
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Valid reports whether both components are inside their ranges
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Latitude, c.Longitude)
}

// QueryKind tells which form of a Query is active
type QueryKind string

const (
	QueryByName        QueryKind = "name"
	QueryByCoordinates QueryKind = "coordinates"
)

// Query drives a single fetch: a city name or a coordinate pair, never both.
type Query struct {
	City        string       `json:"city,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// Kind returns the active form of the query
func (q Query) Kind() QueryKind {
	if q.Coordinates != nil {
		return QueryByCoordinates
	}
	return QueryByName
}

// Blank reports a name query with nothing but whitespace
func (q Query) Blank() bool {
	return q.Coordinates == nil && strings.TrimSpace(q.City) == ""
}

func (q Query) String() string {
	if q.Coordinates != nil {
		return q.Coordinates.String()
	}
	return q.City
}
