package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/weatherapp/backend/internal/domain"
	"github.com/weatherapp/backend/pkg/logger"
)

func TestUnsupportedResolver(t *testing.T) {
	_, err := Unsupported{}.ResolveCurrentPosition(context.Background())
	f := domain.AsFailure(err)
	if f.Kind != domain.FailureLocationUnavailable {
		t.Errorf("expected location-unavailable, got %s", f.Kind)
	}
	if f.Message != domain.MessageGeolocationUnsupported {
		t.Errorf("unexpected message %q", f.Message)
	}
}

func TestReportedResolver(t *testing.T) {
	pos, err := Reported{Position: domain.Coordinates{Latitude: 51.5, Longitude: -0.12}}.ResolveCurrentPosition(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos.Latitude != 51.5 || pos.Longitude != -0.12 {
		t.Errorf("unexpected position %+v", pos)
	}

	for _, code := range []string{PositionDenied, PositionUnavailable, PositionTimeout} {
		_, err := Reported{Err: code}.ResolveCurrentPosition(context.Background())
		f := domain.AsFailure(err)
		if f.Kind != domain.FailureLocationUnavailable || f.Message != "Unable to retrieve your location." {
			t.Errorf("code %s: unexpected failure %+v", code, f)
		}
	}

	_, err = Reported{Position: domain.Coordinates{Latitude: 120}}.ResolveCurrentPosition(context.Background())
	if f := domain.AsFailure(err); f.Kind != domain.FailureLocationUnavailable {
		t.Errorf("out of range position: expected location-unavailable, got %s", f.Kind)
	}
}

func TestStaticResolver(t *testing.T) {
	want := domain.Coordinates{Latitude: 43.2389, Longitude: 76.8897}
	got, err := Static{Position: want}.ResolveCurrentPosition(context.Background())
	if err != nil || got != want {
		t.Fatalf("expected %+v, got %+v (%v)", want, got, err)
	}
}

func TestIPResolver(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{"success", http.StatusOK, `{"status":"success","lat":51.5,"lon":-0.12,"city":"London"}`, false},
		{"lookup failed", http.StatusOK, `{"status":"fail","message":"private range"}`, true},
		{"missing coords", http.StatusOK, `{"status":"success"}`, true},
		{"bad status", http.StatusServiceUnavailable, ``, true},
		{"bad json", http.StatusOK, `{`, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			pos, err := NewIPResolver(srv.URL, logger.NewNop()).ResolveCurrentPosition(context.Background())
			if tc.wantErr {
				f := domain.AsFailure(err)
				if err == nil || f.Kind != domain.FailureLocationUnavailable {
					t.Fatalf("expected location-unavailable, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if pos.Latitude != 51.5 || pos.Longitude != -0.12 {
				t.Errorf("unexpected position %+v", pos)
			}
		})
	}
}
