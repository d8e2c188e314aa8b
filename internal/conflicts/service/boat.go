package service

import (
	"context"
	"fmt"

	"fleetbook/pkg/interval"
	"fleetbook/pkg/model"
	"fleetbook/pkg/sanitizer"
)

const defaultCandidateName = "This booking"

func (s *conflictService) CheckBoatConflict(ctx context.Context, q BoatQuery) ConflictResult {
	w, err := parseWindow(q.Date, q.StartTime, q.DurationMin)
	if err != nil {
		return invalidConflict(err)
	}
	return s.boat(ctx, s.live(), q, w)
}

// boat checks the candidate against every other booking on the same boat
// and date. On a facility boat nothing carries a buffer. Otherwise the
// candidate's buffer comes from configuration and an existing booking's
// from its own stored cleanup time.
func (s *conflictService) boat(ctx context.Context, src dataSource, q BoatQuery, w window) ConflictResult {
	bookings, err := src.boatBookings(ctx, q.BoatID, w.date)
	if err != nil {
		return s.exclusivityFailure(src, "boat", []any{"boat_id", q.BoatID, "date", w.date}, err)
	}

	candidate := w.slot(s.cfg.Buffers.For(q.IsFacility))
	for _, b := range bookings {
		if b.BoatID != q.BoatID || b.Date != w.date {
			continue
		}
		if q.ExcludeID != 0 && b.ID == q.ExcludeID {
			continue
		}
		existing, err := b.Slot(s.cfg.Buffers, q.IsFacility)
		if err != nil {
			return s.exclusivityFailure(src, "boat", []any{"boat_id", q.BoatID, "booking_id", b.ID}, err)
		}
		if !interval.Overlaps(candidate, existing) {
			continue
		}
		s.log.Debug("Boat conflict",
			"source", src.name(),
			"boat_id", q.BoatID,
			"date", w.date,
			"booking_id", b.ID,
		)
		return ConflictResult{
			HasConflict: true,
			Reason:      boatReason(candidateName(q.DisplayName), candidate, b, existing),
		}
	}
	return ConflictResult{}
}

func boatReason(name string, candidate interval.Slot, b *model.Booking, existing interval.Slot) string {
	other := bookingName(b)
	switch interval.Classify(candidate, existing) {
	case interval.CandidateInExistingBuffer:
		return fmt.Sprintf("%s (%s) starts during cleanup time of %s (%s, cleanup until %s)",
			name, interval.FormatRange(candidate),
			other, interval.FormatRange(existing), interval.MinutesToTime(existing.CleanupEnd))
	case interval.ExistingInCandidateBuffer:
		return fmt.Sprintf("%s (%s) starts during cleanup time of %s (%s, cleanup until %s)",
			other, interval.FormatRange(existing),
			name, interval.FormatRange(candidate), interval.MinutesToTime(candidate.CleanupEnd))
	default:
		return fmt.Sprintf("%s (%s) overlaps %s (%s)",
			name, interval.FormatRange(candidate), other, interval.FormatRange(existing))
	}
}

func candidateName(displayName string) string {
	return sanitizer.NameOr(displayName, defaultCandidateName)
}

func bookingName(b *model.Booking) string {
	return sanitizer.NameOr(b.DisplayName, fmt.Sprintf("booking #%d", b.ID))
}
