package travel

import (
	"errors"
	"testing"
	"time"
)

func TestParseOSRMResponse(t *testing.T) {
	body := osrmResponse{Code: "Ok"}
	body.Routes = append(body.Routes, struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
	}{Distance: 12000, Duration: 900})

	est, err := parseOSRMResponse(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if est.DistanceKm != 12.0 {
		t.Fatalf("unexpected distance: %f", est.DistanceKm)
	}
	if est.Duration != 15*time.Minute {
		t.Fatalf("unexpected duration: %s", est.Duration)
	}
}

func TestParseOSRMResponseErrorCode(t *testing.T) {
	_, err := parseOSRMResponse(osrmResponse{Code: "NoRoute"})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestParseOSRMResponseNoRoutes(t *testing.T) {
	_, err := parseOSRMResponse(osrmResponse{Code: "Ok"})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
