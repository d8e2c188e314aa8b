package repository

import (
	"context"
	"fmt"
	"time"

	conflictserrors "fleetbook/internal/conflicts/errors"
	"fleetbook/pkg/config"
	"fleetbook/pkg/model"
)

// Store is the read-only view of the booking database the conflict engine
// needs. Date bounds are inclusive ISO dates. Every finder accepts a set of
// ids so batch callers can load a whole category in one round trip.
type Store interface {
	// FindBlackoutWindows returns active windows for the boats whose
	// [start_date, end_date] intersects [from, to].
	FindBlackoutWindows(ctx context.Context, boatIDs []int64, from, to string) ([]*model.BlackoutWindow, error)
	FindBoatBookings(ctx context.Context, boatIDs []int64, from, to string) ([]*model.Booking, error)
	// FindCoachBookings returns bookings, with their full assignment lists,
	// where any of coachIDs is assigned as coach.
	FindCoachBookings(ctx context.Context, coachIDs []int64, from, to string) ([]*model.Booking, error)
	FindDriverBookings(ctx context.Context, driverIDs []int64, from, to string) ([]*model.Booking, error)
	FindResources(ctx context.Context, kind model.ResourceKind, ids []int64) ([]*model.Resource, error)
	Ping(ctx context.Context) error
}

// NewStore returns the store for the configured driver. The matching client
// connection must already be open.
func NewStore(cfg *config.Config) Store {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		return NewPostgresStore(cfg)
	default:
		return NewMongoStore(cfg)
	}
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", conflictserrors.ErrStoreQuery, op, err)
}

// withTimeout bounds a read by timeout unless the caller's deadline is sooner.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return context.WithDeadline(ctx, deadline)
	}
	return context.WithTimeout(ctx, timeout)
}
