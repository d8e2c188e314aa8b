package model

// AvailabilityRequest asks whether a boat is blacked out. Exactly one of
// EndTime and DurationMin describes the range.
type AvailabilityRequest struct {
	BoatID      int64  `json:"boat_id" validate:"required,min=1"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime   string `json:"start_time" validate:"required,clock_time"`
	EndTime     string `json:"end_time,omitempty" validate:"required_without=DurationMin,excluded_with=DurationMin,omitempty,clock_time"`
	DurationMin int    `json:"duration_min,omitempty" validate:"required_without=EndTime,omitempty,min=1,max=1440"`
}

type BoatConflictRequest struct {
	BoatID      int64  `json:"boat_id" validate:"required,min=1"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime   string `json:"start_time" validate:"required,clock_time"`
	DurationMin int    `json:"duration_min" validate:"required,min=1,max=1440"`
	IsFacility  bool   `json:"is_facility"`
	ExcludeID   int64  `json:"exclude_id,omitempty" validate:"omitempty,min=1"`
	DisplayName string `json:"display_name,omitempty" validate:"omitempty,max=200"`
}

// StaffConflictRequest is shared by the coach and driver checks.
type StaffConflictRequest struct {
	ID          int64  `json:"id" validate:"required,min=1"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime   string `json:"start_time" validate:"required,clock_time"`
	DurationMin int    `json:"duration_min" validate:"required,min=1,max=1440"`
	ExcludeID   int64  `json:"exclude_id,omitempty" validate:"omitempty,min=1"`
}

// CoachesConflictRequest checks several coaches at once. CoachNames is
// optional; missing names are looked up.
type CoachesConflictRequest struct {
	CoachIDs    []int64          `json:"coach_ids" validate:"max=50,dive,min=1"`
	CoachNames  map[int64]string `json:"coach_names,omitempty"`
	Date        string           `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime   string           `json:"start_time" validate:"required,clock_time"`
	DurationMin int              `json:"duration_min" validate:"required,min=1,max=1440"`
	ExcludeID   int64            `json:"exclude_id,omitempty" validate:"omitempty,min=1"`
}

// BookingsCheckRequest is a batch of candidates. A nil LookaheadDays means
// the configured default, an explicit 0 prefetches the candidate dates only.
type BookingsCheckRequest struct {
	Candidates    []Candidate `json:"candidates" validate:"required,min=1,dive"`
	LookaheadDays *int        `json:"lookahead_days,omitempty" validate:"omitnil,min=0,max=366"`
}
