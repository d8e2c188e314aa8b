package repository

import (
	"context"
	"fmt"

	conflictserrors "fleetbook/internal/conflicts/errors"
	"fleetbook/pkg/config"
	"fleetbook/pkg/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Bookings are returned with their coach and driver ids aggregated in the
// same statement, so a staff lookup is one round trip instead of an
// assignment query followed by a booking query.
const bookingColumns = `
SELECT b.id,
       to_char(b.date, 'YYYY-MM-DD'),
       to_char(b.start_time, 'HH24:MI'),
       b.duration_min,
       b.cleanup_min,
       b.boat_id,
       COALESCE((SELECT array_agg(bc.coach_id ORDER BY bc.coach_id)
                   FROM booking_coaches bc WHERE bc.booking_id = b.id), '{}'::bigint[]),
       COALESCE((SELECT array_agg(bd.driver_id ORDER BY bd.driver_id)
                   FROM booking_drivers bd WHERE bd.booking_id = b.id), '{}'::bigint[]),
       COALESCE(b.display_name, '')
  FROM bookings b`

const (
	boatBookingsQuery = bookingColumns + `
 WHERE b.boat_id = ANY($1)
   AND b.date BETWEEN $2::date AND $3::date
 ORDER BY b.date, b.start_time, b.id`

	coachBookingsQuery = bookingColumns + `
 WHERE EXISTS (SELECT 1 FROM booking_coaches x WHERE x.booking_id = b.id AND x.coach_id = ANY($1))
   AND b.date BETWEEN $2::date AND $3::date
 ORDER BY b.date, b.start_time, b.id`

	driverBookingsQuery = bookingColumns + `
 WHERE EXISTS (SELECT 1 FROM booking_drivers x WHERE x.booking_id = b.id AND x.driver_id = ANY($1))
   AND b.date BETWEEN $2::date AND $3::date
 ORDER BY b.date, b.start_time, b.id`

	blackoutWindowsQuery = `
SELECT w.id,
       w.boat_id,
       to_char(w.start_date, 'YYYY-MM-DD'),
       to_char(w.end_date, 'YYYY-MM-DD'),
       to_char(w.start_time, 'HH24:MI'),
       to_char(w.end_time, 'HH24:MI'),
       COALESCE(w.reason, ''),
       w.is_active
  FROM boat_blackout_windows w
 WHERE w.boat_id = ANY($1)
   AND w.is_active
   AND w.start_date <= $3::date
   AND w.end_date >= $2::date
 ORDER BY w.start_date, w.id`

	resourcesQuery = `
SELECT id, kind, name, is_facility
  FROM resources
 WHERE kind = $1 AND id = ANY($2)
 ORDER BY id`
)

type postgresStore struct {
	cfg  *config.Config
	pool *pgxpool.Pool
}

func NewPostgresStore(cfg *config.Config) Store {
	return &postgresStore{
		cfg:  cfg,
		pool: cfg.Client.Postgres,
	}
}

func (r *postgresStore) FindBlackoutWindows(ctx context.Context, boatIDs []int64, from, to string) ([]*model.BlackoutWindow, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, blackoutWindowsQuery, boatIDs, from, to)
	if err != nil {
		return nil, storeErr("query blackout windows", err)
	}
	windows, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.BlackoutWindow, error) {
		var w model.BlackoutWindow
		err := row.Scan(&w.ID, &w.BoatID, &w.StartDate, &w.EndDate, &w.StartTime, &w.EndTime, &w.Reason, &w.Active)
		return &w, err
	})
	if err != nil {
		return nil, storeErr("scan blackout windows", err)
	}
	return windows, nil
}

func (r *postgresStore) FindBoatBookings(ctx context.Context, boatIDs []int64, from, to string) ([]*model.Booking, error) {
	return r.findBookings(ctx, "boat", boatBookingsQuery, boatIDs, from, to)
}

func (r *postgresStore) FindCoachBookings(ctx context.Context, coachIDs []int64, from, to string) ([]*model.Booking, error) {
	return r.findBookings(ctx, "coach", coachBookingsQuery, coachIDs, from, to)
}

func (r *postgresStore) FindDriverBookings(ctx context.Context, driverIDs []int64, from, to string) ([]*model.Booking, error) {
	return r.findBookings(ctx, "driver", driverBookingsQuery, driverIDs, from, to)
}

func (r *postgresStore) findBookings(ctx context.Context, role, query string, ids []int64, from, to string) ([]*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, query, ids, from, to)
	if err != nil {
		return nil, storeErr(fmt.Sprintf("query %s bookings", role), err)
	}
	bookings, err := pgx.CollectRows(rows, scanBooking)
	if err != nil {
		return nil, storeErr(fmt.Sprintf("scan %s bookings", role), err)
	}
	return bookings, nil
}

func scanBooking(row pgx.CollectableRow) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(
		&b.ID,
		&b.Date,
		&b.StartTime,
		&b.DurationMin,
		&b.CleanupMin,
		&b.BoatID,
		&b.CoachIDs,
		&b.DriverIDs,
		&b.DisplayName,
	)
	return &b, err
}

func (r *postgresStore) FindResources(ctx context.Context, kind model.ResourceKind, ids []int64) ([]*model.Resource, error) {
	if !validKind(kind) {
		return nil, fmt.Errorf("%w: %s", conflictserrors.ErrUnknownKind, kind)
	}
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, resourcesQuery, string(kind), ids)
	if err != nil {
		return nil, storeErr("query resources", err)
	}
	resources, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.Resource, error) {
		var res model.Resource
		var k string
		err := row.Scan(&res.ID, &k, &res.Name, &res.Facility)
		res.Kind = model.ResourceKind(k)
		return &res, err
	})
	if err != nil {
		return nil, storeErr("scan resources", err)
	}
	return resources, nil
}

func (r *postgresStore) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
