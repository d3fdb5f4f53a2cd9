package travel

import (
	"context"
	"errors"
	"time"

	"github.com/sparkcrew/backend/internal/models"
)

// ErrUnavailable means no estimate could be produced for the pair. Callers
// treat it as a normal condition, not a failure.
var ErrUnavailable = errors.New("travel estimate unavailable")

type Estimate struct {
	DistanceKm float64
	Duration   time.Duration
}

type Estimator interface {
	Estimate(ctx context.Context, origin, dest models.Coordinate) (Estimate, error)
}
