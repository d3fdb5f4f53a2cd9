package travel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sparkcrew/backend/internal/models"
)

// OSRMEstimator asks an OSRM-compatible routing service for driving
// distance/duration. Any error or malformed response maps to ErrUnavailable.
type OSRMEstimator struct {
	BaseURL     string
	UserAgent   string
	MinInterval time.Duration
	Client      *http.Client

	mu        sync.Mutex
	lastReqAt time.Time
	cache     map[string]Estimate
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
	} `json:"routes"`
}

func (e *OSRMEstimator) Estimate(ctx context.Context, origin, dest models.Coordinate) (Estimate, error) {
	if e.Client == nil {
		e.Client = &http.Client{Timeout: 10 * time.Second}
	}
	if e.BaseURL == "" {
		e.BaseURL = "https://router.project-osrm.org"
	}
	if e.UserAgent == "" {
		e.UserAgent = "sparkcrew-backend"
	}

	key := fmt.Sprintf("%.5f,%.5f|%.5f,%.5f", origin.Lat, origin.Lon, dest.Lat, dest.Lon)

	e.mu.Lock()
	if e.cache == nil {
		e.cache = map[string]Estimate{}
	}
	if cached, ok := e.cache[key]; ok {
		e.mu.Unlock()
		return cached, nil
	}
	if e.MinInterval > 0 {
		sleepFor := time.Until(e.lastReqAt.Add(e.MinInterval))
		if sleepFor > 0 {
			e.mu.Unlock()
			time.Sleep(sleepFor)
			e.mu.Lock()
		}
	}
	e.lastReqAt = time.Now()
	e.mu.Unlock()

	endpoint := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=false",
		e.BaseURL, origin.Lon, origin.Lat, dest.Lon, dest.Lat)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Estimate{}, ErrUnavailable
	}
	req.Header.Set("User-Agent", e.UserAgent)

	resp, err := e.Client.Do(req)
	if err != nil {
		return Estimate{}, ErrUnavailable
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Estimate{}, ErrUnavailable
	}

	var body osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Estimate{}, ErrUnavailable
	}
	result, err := parseOSRMResponse(body)
	if err != nil {
		return Estimate{}, err
	}

	e.mu.Lock()
	e.cache[key] = result
	e.mu.Unlock()

	return result, nil
}

func parseOSRMResponse(body osrmResponse) (Estimate, error) {
	if body.Code != "Ok" || len(body.Routes) == 0 {
		return Estimate{}, ErrUnavailable
	}
	route := body.Routes[0]
	if route.Distance < 0 || route.Duration < 0 {
		return Estimate{}, ErrUnavailable
	}
	return Estimate{
		DistanceKm: route.Distance / 1000.0,
		Duration:   time.Duration(route.Duration * float64(time.Second)),
	}, nil
}
