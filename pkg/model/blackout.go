package model

// BlackoutWindow is an administrative range during which a boat cannot be
// booked. With neither StartTime nor EndTime it covers whole days.
type BlackoutWindow struct {
	ID        int64   `json:"id" bson:"_id"`
	BoatID    int64   `json:"boat_id" bson:"boat_id"`
	StartDate string  `json:"start_date" bson:"start_date"`
	EndDate   string  `json:"end_date" bson:"end_date"`
	StartTime *string `json:"start_time,omitempty" bson:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty" bson:"end_time,omitempty"`
	Reason    string  `json:"reason" bson:"reason"`
	Active    bool    `json:"is_active" bson:"is_active"`
}

func (w *BlackoutWindow) WholeDay() bool {
	return w.StartTime == nil && w.EndTime == nil
}

// Covers reports whether date falls inside [StartDate, EndDate].
func (w *BlackoutWindow) Covers(date string) bool {
	return w.StartDate <= date && date <= w.EndDate
}
