package service

import (
	"context"
	"fmt"
	"slices"

	conflictserrors "fleetbook/internal/conflicts/errors"
	"fleetbook/pkg/interval"
	"fleetbook/pkg/model"

	"github.com/google/uuid"
)

// Snapshot is the conflict data for a batch of candidates, loaded once.
// It belongs to the call that prefetched it and must not be shared across
// requests: it reflects the store at prefetch time only.
type Snapshot struct {
	ID              uuid.UUID               `json:"id"`
	From            string                  `json:"from,omitempty"`
	To              string                  `json:"to,omitempty"`
	BlackoutWindows []*model.BlackoutWindow `json:"blackout_windows"`
	BoatBookings    []*model.Booking        `json:"boat_bookings"`
	CoachBookings   []*model.Booking        `json:"coach_bookings"`
	DriverBookings  []*model.Booking        `json:"driver_bookings"`

	boatIDs   map[int64]struct{}
	coachIDs  map[int64]struct{}
	driverIDs map[int64]struct{}
}

// idSetKind names one of the id sets a snapshot was loaded for.
type idSetKind int

const (
	boatSet idSetKind = iota
	coachSet
	driverSet
)

// covers fails when the snapshot is nil, any of ids was not loaded into
// the kind set, or date is outside [From, To].
func (s *Snapshot) covers(kind idSetKind, ids []int64, date string) error {
	if s == nil {
		return fmt.Errorf("%w: no snapshot", conflictserrors.ErrSnapshotMiss)
	}
	if s.From == "" || date < s.From || date > s.To {
		return fmt.Errorf("%w: date %s outside [%s, %s]", conflictserrors.ErrSnapshotMiss, date, s.From, s.To)
	}
	loaded := s.boatIDs
	switch kind {
	case coachSet:
		loaded = s.coachIDs
	case driverSet:
		loaded = s.driverIDs
	}
	for _, id := range ids {
		if _, ok := loaded[id]; !ok {
			return fmt.Errorf("%w: id %d", conflictserrors.ErrSnapshotMiss, id)
		}
	}
	return nil
}

func idSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// uniqueIDs returns the distinct ids in first-seen order.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// PrefetchConflictData loads every blackout window and booking that any of
// candidates could conflict with, using at most one read per category over
// [earliest date, latest date + lookaheadDays]. A category with no ids is
// skipped.
func (s *conflictService) PrefetchConflictData(ctx context.Context, candidates []model.Candidate, lookaheadDays int) (*Snapshot, error) {
	snap := &Snapshot{
		ID:        uuid.New(),
		boatIDs:   map[int64]struct{}{},
		coachIDs:  map[int64]struct{}{},
		driverIDs: map[int64]struct{}{},
	}
	if len(candidates) == 0 {
		return snap, nil
	}
	if lookaheadDays < 0 {
		lookaheadDays = 0
	}

	var boats, coaches, drivers []int64
	dates := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if _, err := interval.ParseDate(c.Date); err != nil {
			return nil, fmt.Errorf("%w: %q", conflictserrors.ErrInvalidDate, c.Date)
		}
		dates = append(dates, c.Date)
		boats = append(boats, c.BoatID)
		coaches = append(coaches, c.CoachIDs...)
		drivers = append(drivers, c.DriverIDs...)
	}
	boats, coaches, drivers = sortedUnique(boats), sortedUnique(coaches), sortedUnique(drivers)

	from, latest, _ := interval.DateSpan(dates)
	to, err := interval.AddDays(latest, lookaheadDays)
	if err != nil {
		return nil, err
	}
	snap.From, snap.To = from, to

	log := s.log.With("snapshot_id", snap.ID, "from", from, "to", to)

	if len(boats) > 0 {
		if snap.BlackoutWindows, err = s.store.FindBlackoutWindows(ctx, boats, from, to); err != nil {
			log.Error("Prefetch of blackout windows failed", "error", err)
			return nil, err
		}
		if snap.BoatBookings, err = s.store.FindBoatBookings(ctx, boats, from, to); err != nil {
			log.Error("Prefetch of boat bookings failed", "error", err)
			return nil, err
		}
		snap.boatIDs = idSet(boats)
	}
	if len(coaches) > 0 {
		if snap.CoachBookings, err = s.store.FindCoachBookings(ctx, coaches, from, to); err != nil {
			log.Error("Prefetch of coach bookings failed", "error", err)
			return nil, err
		}
		snap.coachIDs = idSet(coaches)
	}
	if len(drivers) > 0 {
		if snap.DriverBookings, err = s.store.FindDriverBookings(ctx, drivers, from, to); err != nil {
			log.Error("Prefetch of driver bookings failed", "error", err)
			return nil, err
		}
		snap.driverIDs = idSet(drivers)
	}

	log.Debug("Conflict data prefetched",
		"candidates", len(candidates),
		"blackout_windows", len(snap.BlackoutWindows),
		"boat_bookings", len(snap.BoatBookings),
		"coach_bookings", len(snap.CoachBookings),
		"driver_bookings", len(snap.DriverBookings),
	)
	return snap, nil
}

func sortedUnique(ids []int64) []int64 {
	ids = slices.Clone(ids)
	slices.Sort(ids)
	return slices.Compact(ids)
}

func (s *conflictService) CheckBoatUnavailableFromCache(snap *Snapshot, boatID int64, date, startTime string, durationMin int) AvailabilityResult {
	w, err := parseWindow(date, startTime, durationMin)
	if err != nil {
		return invalidAvailability(err)
	}
	return s.availability(context.Background(), snapshotSource{snap: snap}, boatID, w)
}

func (s *conflictService) CheckBoatConflictFromCache(snap *Snapshot, q BoatQuery) ConflictResult {
	w, err := parseWindow(q.Date, q.StartTime, q.DurationMin)
	if err != nil {
		return invalidConflict(err)
	}
	return s.boat(context.Background(), snapshotSource{snap: snap}, q, w)
}

func (s *conflictService) CheckCoachConflictFromCache(snap *Snapshot, coachID int64, date, startTime string, durationMin int, excludeID int64) ConflictResult {
	w, err := parseWindow(date, startTime, durationMin)
	if err != nil {
		return invalidConflict(err)
	}
	return s.staff(context.Background(), snapshotSource{snap: snap}, roleCoach, []int64{coachID}, w, excludeID)
}

func (s *conflictService) CheckDriverConflictFromCache(snap *Snapshot, driverID int64, date, startTime string, durationMin int, excludeID int64) ConflictResult {
	w, err := parseWindow(date, startTime, durationMin)
	if err != nil {
		return invalidConflict(err)
	}
	return s.staff(context.Background(), snapshotSource{snap: snap}, roleDriver, []int64{driverID}, w, excludeID)
}
