package travel

import (
	"context"

	"github.com/sparkcrew/backend/internal/models"
)

// Failover tries the primary estimator and silently falls back, so callers
// never branch on provider availability.
type Failover struct {
	Primary  Estimator
	Fallback Estimator
}

func (f Failover) Estimate(ctx context.Context, origin, dest models.Coordinate) (Estimate, error) {
	if f.Primary != nil {
		if est, err := f.Primary.Estimate(ctx, origin, dest); err == nil {
			return est, nil
		}
	}
	if f.Fallback == nil {
		return Estimate{}, ErrUnavailable
	}
	return f.Fallback.Estimate(ctx, origin, dest)
}
