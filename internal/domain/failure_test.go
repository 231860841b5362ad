package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestAsFailure(t *testing.T) {
	cause := errors.New("connection refused")

	wrapped := fmt.Errorf("lookup: %w", NotFound(cause))
	if f := AsFailure(wrapped); f.Kind != FailureNotFound || f.Message != MessageNotFound {
		t.Errorf("expected wrapped not-found, got %+v", f)
	}
	if !errors.Is(NotFound(cause), cause) {
		t.Error("expected failure to unwrap to its cause")
	}

	if f := AsFailure(cause); f.Kind != FailureNetwork || f.Message != MessageNetwork {
		t.Errorf("plain errors should map to network-error, got %+v", f)
	}
}

func TestQuery(t *testing.T) {
	byName := Query{City: "  "}
	if byName.Kind() != QueryByName || !byName.Blank() {
		t.Errorf("expected blank name query, got %+v", byName)
	}

	pos := Coordinates{Latitude: 51.5, Longitude: -0.12}
	byCoords := Query{Coordinates: &pos}
	if byCoords.Kind() != QueryByCoordinates || byCoords.Blank() {
		t.Errorf("expected coordinate query, got %+v", byCoords)
	}
	if byCoords.String() != "51.5000,-0.1200" {
		t.Errorf("unexpected string %q", byCoords.String())
	}
}

func TestCoordinatesValid(t *testing.T) {
	cases := map[Coordinates]bool{
		{Latitude: 0, Longitude: 0}:        true,
		{Latitude: 90, Longitude: 180}:     true,
		{Latitude: -90.1, Longitude: 0}:    false,
		{Latitude: 0, Longitude: 180.5}:    false,
		{Latitude: 51.5, Longitude: -0.12}: true,
	}
	for c, want := range cases {
		if got := c.Valid(); got != want {
			t.Errorf("%v.Valid() = %v, want %v", c, got, want)
		}
	}
}
