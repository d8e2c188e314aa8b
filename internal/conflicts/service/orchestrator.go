package service

import (
	"context"

	"fleetbook/pkg/model"
)

type Stage string

const (
	StageInput        Stage = "input"
	StagePrefetch     Stage = "prefetch"
	StageAvailability Stage = "availability"
	StageBoat         Stage = "boat"
	StageCoach        Stage = "coach"
	StageDriver       Stage = "driver"
)

// BookingDecision is the combined verdict for one candidate. Stage names
// the check that denied it and is empty when Allowed. Err carries the first
// store failure seen, including ones the failure policy let through.
type BookingDecision struct {
	Allowed bool   `json:"allowed"`
	Stage   Stage  `json:"stage,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Err     error  `json:"-"`
}

// CheckBooking runs every check for one candidate against the live store.
func (s *conflictService) CheckBooking(ctx context.Context, c model.Candidate) BookingDecision {
	return s.decide(ctx, s.live(), c)
}

// CheckBookings decides a batch of candidates from one shared prefetch.
// Candidates are checked in order against stored data only, not against
// each other. If the prefetch fails, every candidate gets the exclusivity
// policy's verdict.
func (s *conflictService) CheckBookings(ctx context.Context, candidates []model.Candidate, lookaheadDays int) []BookingDecision {
	decisions := make([]BookingDecision, len(candidates))
	if len(candidates) == 0 {
		return decisions
	}

	snap, err := s.PrefetchConflictData(ctx, candidates, lookaheadDays)
	if err != nil {
		allowed := !s.cfg.FailurePolicy.ExclusivityFailsClosed()
		for i := range decisions {
			decisions[i] = BookingDecision{Allowed: allowed, Err: err}
			if !allowed {
				decisions[i].Stage = StagePrefetch
				decisions[i].Reason = ReasonCheckFailed
			}
		}
		return decisions
	}

	src := snapshotSource{snap: snap}
	for i, c := range candidates {
		decisions[i] = s.decide(ctx, src, c)
	}
	return decisions
}

// decide runs availability, boat, coach and driver checks in that order
// and stops at the first one that denies.
func (s *conflictService) decide(ctx context.Context, src dataSource, c model.Candidate) BookingDecision {
	w, err := parseWindow(c.Date, c.StartTime, c.DurationMin)
	if err != nil {
		return BookingDecision{Stage: StageInput, Reason: err.Error(), Err: err}
	}

	var firstErr error
	note := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	avail := s.availability(ctx, src, c.BoatID, w)
	note(avail.Err)
	if avail.Unavailable {
		return BookingDecision{Stage: StageAvailability, Reason: avail.Reason, Err: firstErr}
	}

	steps := []struct {
		stage Stage
		check func() ConflictResult
	}{
		{StageBoat, func() ConflictResult {
			return s.boat(ctx, src, BoatQuery{
				BoatID:      c.BoatID,
				Date:        c.Date,
				StartTime:   c.StartTime,
				DurationMin: c.DurationMin,
				IsFacility:  c.IsFacility,
				ExcludeID:   c.BookingID,
				DisplayName: c.DisplayName,
			}, w)
		}},
		{StageCoach, func() ConflictResult { return s.staff(ctx, src, roleCoach, c.CoachIDs, w, c.BookingID) }},
		{StageDriver, func() ConflictResult { return s.staff(ctx, src, roleDriver, c.DriverIDs, w, c.BookingID) }},
	}
	for _, step := range steps {
		res := step.check()
		note(res.Err)
		if res.HasConflict {
			return BookingDecision{Stage: step.stage, Reason: res.Reason, Err: firstErr}
		}
	}
	return BookingDecision{Allowed: true, Err: firstErr}
}
