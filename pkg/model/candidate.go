package model

// Candidate is a reservation that a workflow wants to place or move.
// BookingID is the booking being edited and is never reported as
// conflicting with itself; zero means a new booking.
type Candidate struct {
	BookingID   int64   `json:"booking_id,omitempty" validate:"omitempty,min=1"`
	BoatID      int64   `json:"boat_id" validate:"required,min=1"`
	IsFacility  bool    `json:"is_facility"`
	CoachIDs    []int64 `json:"coach_ids,omitempty" validate:"omitempty,max=20,dive,min=1"`
	DriverIDs   []int64 `json:"driver_ids,omitempty" validate:"omitempty,max=20,dive,min=1"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime   string  `json:"start_time" validate:"required,clock_time"`
	DurationMin int     `json:"duration_min" validate:"required,min=1,max=1440"`
	DisplayName string  `json:"display_name,omitempty" validate:"omitempty,max=200"`
}
