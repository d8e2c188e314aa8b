package service

import (
	"context"
	"fmt"

	conflictserrors "fleetbook/internal/conflicts/errors"
	"fleetbook/internal/conflicts/repository"
	"fleetbook/pkg/config"
	"fleetbook/pkg/interval"
	"fleetbook/pkg/logger"
	"fleetbook/pkg/model"
)

const (
	ReasonCheckFailed        = "error while checking conflict"
	ReasonAvailabilityFailed = "error while checking availability"
	ReasonBoatUnavailable    = "boat is unavailable"
	UnknownCoachName         = "Unknown coach"
)

// ConflictService decides whether a candidate reservation can take a
// resource. Every method returns a result value, never an error: store
// failures are logged, resolved by the configured FailurePolicy and
// attached to the result's Err field.
type ConflictService interface {
	CheckUnavailable(ctx context.Context, boatID int64, date, startTime string, durationMin int) AvailabilityResult
	CheckUnavailableUntil(ctx context.Context, boatID int64, date, startTime, endTime string) AvailabilityResult
	CheckBoatConflict(ctx context.Context, q BoatQuery) ConflictResult
	CheckCoachConflict(ctx context.Context, coachID int64, date, startTime string, durationMin int, excludeID int64) ConflictResult
	CheckDriverConflict(ctx context.Context, driverID int64, date, startTime string, durationMin int, excludeID int64) ConflictResult
	CheckCoachesConflictBatch(ctx context.Context, coachIDs []int64, date, startTime string, durationMin int, names map[int64]string, excludeID int64) BatchConflictResult

	PrefetchConflictData(ctx context.Context, candidates []model.Candidate, lookaheadDays int) (*Snapshot, error)
	CheckBoatUnavailableFromCache(snap *Snapshot, boatID int64, date, startTime string, durationMin int) AvailabilityResult
	CheckBoatConflictFromCache(snap *Snapshot, q BoatQuery) ConflictResult
	CheckCoachConflictFromCache(snap *Snapshot, coachID int64, date, startTime string, durationMin int, excludeID int64) ConflictResult
	CheckDriverConflictFromCache(snap *Snapshot, driverID int64, date, startTime string, durationMin int, excludeID int64) ConflictResult

	CheckBooking(ctx context.Context, c model.Candidate) BookingDecision
	CheckBookings(ctx context.Context, candidates []model.Candidate, lookaheadDays int) []BookingDecision
}

type AvailabilityResult struct {
	Unavailable bool   `json:"is_unavailable"`
	Reason      string `json:"reason,omitempty"`
	Err         error  `json:"-"`
}

type ConflictResult struct {
	HasConflict bool   `json:"has_conflict"`
	Reason      string `json:"reason,omitempty"`
	Err         error  `json:"-"`
}

type CoachConflict struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type BatchConflictResult struct {
	HasConflict     bool            `json:"has_conflict"`
	ConflictCoaches []CoachConflict `json:"conflict_coaches"`
	Err             error           `json:"-"`
}

// BoatQuery describes a candidate occupying one boat. ExcludeID is the
// booking being edited, zero for a new booking.
type BoatQuery struct {
	BoatID      int64
	Date        string
	StartTime   string
	DurationMin int
	IsFacility  bool
	ExcludeID   int64
	DisplayName string
}

type conflictService struct {
	store repository.Store
	cfg   *config.Config
	log   *logger.Logger
}

func NewConflictService(store repository.Store, cfg *config.Config) ConflictService {
	return &conflictService{
		store: store,
		cfg:   cfg,
		log:   cfg.Log.Component("conflicts"),
	}
}

func (s *conflictService) live() dataSource {
	return liveSource{store: s.store}
}

// window is a validated query range on one date, in minutes.
type window struct {
	date  string
	start int
	end   int
}

func parseWindow(date, startTime string, durationMin int) (window, error) {
	if _, err := interval.ParseDate(date); err != nil {
		return window{}, fmt.Errorf("%w: %q", conflictserrors.ErrInvalidDate, date)
	}
	start, err := interval.TimeToMinutes(startTime)
	if err != nil {
		return window{}, wrapTime(startTime)
	}
	if durationMin <= 0 {
		return window{}, fmt.Errorf("%w: %d", conflictserrors.ErrInvalidDuration, durationMin)
	}
	return window{date: date, start: start, end: start + durationMin}, nil
}

func wrapTime(value string) error {
	return fmt.Errorf("%w: %q", conflictserrors.ErrInvalidTime, value)
}

func (w window) duration() int {
	return w.end - w.start
}

func (w window) slot(bufferMin int) interval.Slot {
	return interval.BuildSlot(w.start, w.duration(), bufferMin)
}

// availabilityFailure applies the blackout policy to a failed lookup.
func (s *conflictService) availabilityFailure(src dataSource, boatID int64, date string, err error) AvailabilityResult {
	s.log.Error("Blackout lookup failed",
		"source", src.name(),
		"boat_id", boatID,
		"date", date,
		"fail_open", s.cfg.FailurePolicy.BlackoutFailsOpen(),
		"error", err,
	)
	if s.cfg.FailurePolicy.BlackoutFailsOpen() {
		return AvailabilityResult{Unavailable: false, Err: err}
	}
	return AvailabilityResult{Unavailable: true, Reason: ReasonAvailabilityFailed, Err: err}
}

// exclusivityFailure applies the exclusivity policy to a failed lookup.
func (s *conflictService) exclusivityFailure(src dataSource, check string, args []any, err error) ConflictResult {
	attrs := append([]any{"source", src.name(), "check", check}, args...)
	attrs = append(attrs, "fail_closed", s.cfg.FailurePolicy.ExclusivityFailsClosed(), "error", err)
	s.log.Error("Conflict lookup failed", attrs...)
	if s.cfg.FailurePolicy.ExclusivityFailsClosed() {
		return ConflictResult{HasConflict: true, Reason: ReasonCheckFailed, Err: err}
	}
	return ConflictResult{HasConflict: false, Err: err}
}

func invalidConflict(err error) ConflictResult {
	return ConflictResult{HasConflict: true, Reason: err.Error(), Err: err}
}

func invalidAvailability(err error) AvailabilityResult {
	return AvailabilityResult{Unavailable: true, Reason: err.Error(), Err: err}
}
