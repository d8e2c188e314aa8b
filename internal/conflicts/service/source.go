package service

import (
	"context"
	"fmt"

	"fleetbook/internal/conflicts/repository"
	"fleetbook/pkg/model"
)

// staffRole selects which assignment list of a booking a staff check reads.
type staffRole string

const (
	roleCoach  staffRole = "coach"
	roleDriver staffRole = "driver"
)

func (r staffRole) assigned(b *model.Booking, id int64) bool {
	if r == roleDriver {
		return b.HasDriver(id)
	}
	return b.HasCoach(id)
}

func (r staffRole) ids(b *model.Booking) []int64 {
	if r == roleDriver {
		return b.DriverIDs
	}
	return b.CoachIDs
}

// dataSource is where one evaluation reads its facts from. The checks are
// written once against it; the live source queries the store per call and
// the snapshot source filters a prefetched Snapshot.
type dataSource interface {
	name() string
	blackoutWindows(ctx context.Context, boatID int64, date string) ([]*model.BlackoutWindow, error)
	boatBookings(ctx context.Context, boatID int64, date string) ([]*model.Booking, error)
	staffBookings(ctx context.Context, role staffRole, ids []int64, date string) ([]*model.Booking, error)
}

type liveSource struct {
	store repository.Store
}

func (liveSource) name() string { return "live" }

func (l liveSource) blackoutWindows(ctx context.Context, boatID int64, date string) ([]*model.BlackoutWindow, error) {
	return l.store.FindBlackoutWindows(ctx, []int64{boatID}, date, date)
}

func (l liveSource) boatBookings(ctx context.Context, boatID int64, date string) ([]*model.Booking, error) {
	return l.store.FindBoatBookings(ctx, []int64{boatID}, date, date)
}

func (l liveSource) staffBookings(ctx context.Context, role staffRole, ids []int64, date string) ([]*model.Booking, error) {
	if role == roleDriver {
		return l.store.FindDriverBookings(ctx, ids, date, date)
	}
	return l.store.FindCoachBookings(ctx, ids, date, date)
}

type snapshotSource struct {
	snap *Snapshot
}

func (snapshotSource) name() string { return "snapshot" }

func (s snapshotSource) blackoutWindows(_ context.Context, boatID int64, date string) ([]*model.BlackoutWindow, error) {
	if err := s.snap.covers(boatSet, []int64{boatID}, date); err != nil {
		return nil, err
	}
	var out []*model.BlackoutWindow
	for _, w := range s.snap.BlackoutWindows {
		if w.BoatID == boatID && w.Active && w.Covers(date) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s snapshotSource) boatBookings(_ context.Context, boatID int64, date string) ([]*model.Booking, error) {
	if err := s.snap.covers(boatSet, []int64{boatID}, date); err != nil {
		return nil, err
	}
	var out []*model.Booking
	for _, b := range s.snap.BoatBookings {
		if b.BoatID == boatID && b.Date == date {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s snapshotSource) staffBookings(_ context.Context, role staffRole, ids []int64, date string) ([]*model.Booking, error) {
	kind := coachSet
	if role == roleDriver {
		kind = driverSet
	}
	if err := s.snap.covers(kind, ids, date); err != nil {
		return nil, fmt.Errorf("%s bookings: %w", role, err)
	}
	bookings := s.snap.CoachBookings
	if role == roleDriver {
		bookings = s.snap.DriverBookings
	}
	var out []*model.Booking
	for _, b := range bookings {
		if b.Date != date {
			continue
		}
		for _, id := range ids {
			if role.assigned(b, id) {
				out = append(out, b)
				break
			}
		}
	}
	return out, nil
}
