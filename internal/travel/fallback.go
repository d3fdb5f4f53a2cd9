package travel

import (
	"context"
	"time"

	"github.com/sparkcrew/backend/internal/models"
	"github.com/sparkcrew/backend/internal/utils"
)

const defaultSpeedKmh = 30.0

// HaversineEstimator approximates driving time from great-circle distance at
// an assumed average urban speed. It never fails.
type HaversineEstimator struct {
	SpeedKmh float64
}

func (e HaversineEstimator) Estimate(_ context.Context, origin, dest models.Coordinate) (Estimate, error) {
	speed := e.SpeedKmh
	if speed <= 0 {
		speed = defaultSpeedKmh
	}
	km := utils.HaversineKm(origin.Lat, origin.Lon, dest.Lat, dest.Lon)
	hours := km / speed
	return Estimate{
		DistanceKm: km,
		Duration:   time.Duration(hours * float64(time.Hour)),
	}, nil
}
