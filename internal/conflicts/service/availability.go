package service

import (
	"context"

	"fleetbook/pkg/interval"
)

func (s *conflictService) CheckUnavailable(ctx context.Context, boatID int64, date, startTime string, durationMin int) AvailabilityResult {
	w, err := parseWindow(date, startTime, durationMin)
	if err != nil {
		return invalidAvailability(err)
	}
	return s.availability(ctx, s.live(), boatID, w)
}

// CheckUnavailableUntil takes an explicit end time. An end at or before the
// start means the range runs past midnight.
func (s *conflictService) CheckUnavailableUntil(ctx context.Context, boatID int64, date, startTime, endTime string) AvailabilityResult {
	start, err := interval.TimeToMinutes(startTime)
	if err != nil {
		return invalidAvailability(wrapTime(startTime))
	}
	end, err := interval.TimeToMinutes(endTime)
	if err != nil {
		return invalidAvailability(wrapTime(endTime))
	}
	if end <= start {
		end += interval.MinutesPerDay
	}
	w, err := parseWindow(date, startTime, end-start)
	if err != nil {
		return invalidAvailability(err)
	}
	return s.availability(ctx, s.live(), boatID, w)
}

// availability reports whether an active blackout window blocks the boat
// for [w.start, w.end) on w.date. A whole-day window blocks every covered
// date. A partial window blocks minutes between its effective bounds for
// that date: its start time applies only on its start date and its end
// time only on its end date, other dates are open to 00:00 and 24:00.
func (s *conflictService) availability(ctx context.Context, src dataSource, boatID int64, w window) AvailabilityResult {
	windows, err := src.blackoutWindows(ctx, boatID, w.date)
	if err != nil {
		return s.availabilityFailure(src, boatID, w.date, err)
	}

	for _, bw := range windows {
		if bw.BoatID != boatID || !bw.Active || !bw.Covers(w.date) {
			continue
		}
		if bw.WholeDay() {
			return AvailabilityResult{Unavailable: true, Reason: blackoutReason(bw.Reason)}
		}

		lower, upper := 0, interval.MinutesPerDay
		if bw.StartTime != nil && w.date == bw.StartDate {
			if lower, err = interval.TimeToMinutes(*bw.StartTime); err != nil {
				s.log.Warn("Skipping blackout window with bad start time", "window_id", bw.ID, "error", err)
				continue
			}
		}
		if bw.EndTime != nil && w.date == bw.EndDate {
			if upper, err = interval.TimeToMinutes(*bw.EndTime); err != nil {
				s.log.Warn("Skipping blackout window with bad end time", "window_id", bw.ID, "error", err)
				continue
			}
		}

		if interval.Intersects(w.start, w.end, lower, upper) {
			s.log.Debug("Boat blocked by blackout window",
				"source", src.name(),
				"boat_id", boatID,
				"date", w.date,
				"window_id", bw.ID,
			)
			return AvailabilityResult{Unavailable: true, Reason: blackoutReason(bw.Reason)}
		}
	}
	return AvailabilityResult{}
}

func blackoutReason(reason string) string {
	if reason == "" {
		return ReasonBoatUnavailable
	}
	return reason
}
