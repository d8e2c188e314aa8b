package model

import (
	"slices"

	"fleetbook/pkg/config"
	"fleetbook/pkg/interval"
)

// Booking is an existing reservation as read from the store. Coach and
// driver assignments travel with it so one read answers both "what is on
// this boat" and "who is busy".
type Booking struct {
	ID          int64   `json:"id" bson:"_id"`
	Date        string  `json:"date" bson:"date"`
	StartTime   string  `json:"start_time" bson:"start_time"`
	DurationMin int     `json:"duration_min" bson:"duration_min"`
	CleanupMin  *int    `json:"cleanup_min,omitempty" bson:"cleanup_min,omitempty"`
	BoatID      int64   `json:"boat_id" bson:"boat_id"`
	CoachIDs    []int64 `json:"coach_ids,omitempty" bson:"coach_ids,omitempty"`
	DriverIDs   []int64 `json:"driver_ids,omitempty" bson:"driver_ids,omitempty"`
	DisplayName string  `json:"display_name" bson:"display_name"`
}

// Occupancy is how long this booking holds its boat. A facility boat has no
// buffer. Otherwise the buffer is the booking's own stored cleanup time,
// falling back to the configured default.
func (b *Booking) Occupancy(buffers config.Buffers, isFacility bool) interval.Occupancy {
	return interval.Occupancy{
		DurationMin: b.DurationMin,
		BufferMin:   buffers.Existing(isFacility, b.CleanupMin),
	}
}

// Slot is the booking's derived boat occupancy, including its buffer.
func (b *Booking) Slot(buffers config.Buffers, isFacility bool) (interval.Slot, error) {
	start, err := interval.TimeToMinutes(b.StartTime)
	if err != nil {
		return interval.Slot{}, err
	}
	return b.Occupancy(buffers, isFacility).Slot(start), nil
}

// StaffSlot is the booking's occupancy for coaches and drivers, who have
// no cleanup time.
func (b *Booking) StaffSlot() (interval.Slot, error) {
	start, err := interval.TimeToMinutes(b.StartTime)
	if err != nil {
		return interval.Slot{}, err
	}
	return interval.BuildSlot(start, b.DurationMin, 0), nil
}

func (b *Booking) HasCoach(id int64) bool {
	return slices.Contains(b.CoachIDs, id)
}

func (b *Booking) HasDriver(id int64) bool {
	return slices.Contains(b.DriverIDs, id)
}
