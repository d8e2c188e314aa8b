package service

import (
	"context"

	"fleetbook/pkg/model"
)

// CheckCoachesConflictBatch checks several coaches for one slot with two
// reads in total: bookings where any of them coaches and bookings where
// any of them drives. A person busy in either role is reported, with at
// most one entry per coach.
func (s *conflictService) CheckCoachesConflictBatch(ctx context.Context, coachIDs []int64, date, startTime string, durationMin int, names map[int64]string, excludeID int64) BatchConflictResult {
	ids := uniqueIDs(coachIDs)
	if len(ids) == 0 {
		return BatchConflictResult{ConflictCoaches: []CoachConflict{}}
	}

	w, err := parseWindow(date, startTime, durationMin)
	if err != nil {
		return batchFailure(ids, names, err.Error(), err)
	}

	src := s.live()
	asCoach, err := src.staffBookings(ctx, roleCoach, ids, w.date)
	if err != nil {
		return s.batchLookupFailure(ids, names, w, err)
	}
	asDriver, err := src.staffBookings(ctx, roleDriver, ids, w.date)
	if err != nil {
		return s.batchLookupFailure(ids, names, w, err)
	}

	byCoach := groupByAssignee(roleCoach, ids, asCoach)
	byDriver := groupByAssignee(roleDriver, ids, asDriver)

	result := BatchConflictResult{ConflictCoaches: []CoachConflict{}}
	candidate := w.slot(0)
	for _, id := range ids {
		reason, err := staffConflict(roleCoach, id, byCoach[id], candidate, w.date, excludeID)
		if err == nil && reason == "" {
			reason, err = staffConflict(roleDriver, id, byDriver[id], candidate, w.date, excludeID)
		}
		if err != nil {
			return s.batchLookupFailure(ids, names, w, err)
		}
		if reason == "" {
			continue
		}
		result.HasConflict = true
		result.ConflictCoaches = append(result.ConflictCoaches, CoachConflict{
			ID:     id,
			Name:   coachName(names, id),
			Reason: reason,
		})
	}

	if result.HasConflict {
		s.log.Debug("Coach batch conflicts", "date", w.date, "conflicts", len(result.ConflictCoaches))
	}
	return result
}

// groupByAssignee indexes bookings by each requested id assigned in role.
// A booking with two requested coaches appears under both.
func groupByAssignee(role staffRole, ids []int64, bookings []*model.Booking) map[int64][]*model.Booking {
	wanted := idSet(ids)
	groups := make(map[int64][]*model.Booking, len(ids))
	for _, b := range bookings {
		for _, id := range role.ids(b) {
			if _, ok := wanted[id]; ok {
				groups[id] = append(groups[id], b)
			}
		}
	}
	return groups
}

func (s *conflictService) batchLookupFailure(ids []int64, names map[int64]string, w window, err error) BatchConflictResult {
	s.log.Error("Coach batch lookup failed",
		"ids", ids,
		"date", w.date,
		"fail_closed", s.cfg.FailurePolicy.ExclusivityFailsClosed(),
		"error", err,
	)
	if !s.cfg.FailurePolicy.ExclusivityFailsClosed() {
		return BatchConflictResult{ConflictCoaches: []CoachConflict{}, Err: err}
	}
	return batchFailure(ids, names, ReasonCheckFailed, err)
}

// batchFailure reports every coach as conflicting with the same reason.
func batchFailure(ids []int64, names map[int64]string, reason string, err error) BatchConflictResult {
	conflicts := make([]CoachConflict, 0, len(ids))
	for _, id := range ids {
		conflicts = append(conflicts, CoachConflict{ID: id, Name: coachName(names, id), Reason: reason})
	}
	return BatchConflictResult{HasConflict: true, ConflictCoaches: conflicts, Err: err}
}

func coachName(names map[int64]string, id int64) string {
	if n, ok := names[id]; ok && n != "" {
		return n
	}
	return UnknownCoachName
}
