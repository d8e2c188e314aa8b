package service

import (
	"context"
	"fmt"

	"fleetbook/pkg/interval"
	"fleetbook/pkg/model"
)

func (s *conflictService) CheckCoachConflict(ctx context.Context, coachID int64, date, startTime string, durationMin int, excludeID int64) ConflictResult {
	w, err := parseWindow(date, startTime, durationMin)
	if err != nil {
		return invalidConflict(err)
	}
	return s.staff(ctx, s.live(), roleCoach, []int64{coachID}, w, excludeID)
}

func (s *conflictService) CheckDriverConflict(ctx context.Context, driverID int64, date, startTime string, durationMin int, excludeID int64) ConflictResult {
	w, err := parseWindow(date, startTime, durationMin)
	if err != nil {
		return invalidConflict(err)
	}
	return s.staff(ctx, s.live(), roleDriver, []int64{driverID}, w, excludeID)
}

// staff checks that none of ids is assigned in role to another booking
// overlapping w. Staff carry no buffer on either side. All ids are read in
// one lookup and the first conflict in ids order is reported.
func (s *conflictService) staff(ctx context.Context, src dataSource, role staffRole, ids []int64, w window, excludeID int64) ConflictResult {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return ConflictResult{}
	}
	bookings, err := src.staffBookings(ctx, role, ids, w.date)
	if err != nil {
		return s.exclusivityFailure(src, string(role), []any{"ids", ids, "date", w.date}, err)
	}

	candidate := w.slot(0)
	for _, id := range ids {
		reason, err := staffConflict(role, id, bookings, candidate, w.date, excludeID)
		if err != nil {
			return s.exclusivityFailure(src, string(role), []any{"id", id, "date", w.date}, err)
		}
		if reason != "" {
			s.log.Debug("Staff conflict", "source", src.name(), "role", role, "id", id, "date", w.date)
			return ConflictResult{HasConflict: true, Reason: reason}
		}
	}
	return ConflictResult{}
}

// staffConflict returns a reason when id, assigned in role, is busy during
// candidate on date. An empty reason means free.
func staffConflict(role staffRole, id int64, bookings []*model.Booking, candidate interval.Slot, date string, excludeID int64) (string, error) {
	for _, b := range bookings {
		if b.Date != date || !role.assigned(b, id) {
			continue
		}
		if excludeID != 0 && b.ID == excludeID {
			continue
		}
		existing, err := b.StaffSlot()
		if err != nil {
			return "", fmt.Errorf("booking %d: %w", b.ID, err)
		}
		if interval.Overlaps(candidate, existing) {
			return fmt.Sprintf("%s #%d is already assigned to %s (%s)",
				role, id, bookingName(b), interval.FormatRange(existing)), nil
		}
	}
	return "", nil
}
