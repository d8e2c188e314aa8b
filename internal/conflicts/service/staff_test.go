package service

import (
	"context"
	"testing"

	"fleetbook/pkg/model"
)

func staffBooking(id int64, start string, duration int, coaches, drivers []int64) *model.Booking {
	b := booking(id, id, testDate, start, duration)
	b.CoachIDs = coaches
	b.DriverIDs = drivers
	return b
}

func TestCheckCoachConflict(t *testing.T) {
	store := &mockStore{bookings: []*model.Booking{
		staffBooking(1, "10:00", 60, []int64{5}, nil),
		staffBooking(2, "14:00", 60, nil, []int64{5}),
	}}
	svc := newTestService(store)
	ctx := context.Background()

	tests := []struct {
		name      string
		start     string
		excludeID int64
		want      bool
	}{
		{name: "overlapping", start: "10:30", want: true},
		{name: "touching end has no buffer", start: "11:00", want: false},
		{name: "touching start", start: "09:00", want: false},
		{name: "driving is not coaching", start: "14:00", want: false},
		{name: "excluded self", start: "10:00", excludeID: 1, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.CheckCoachConflict(ctx, 5, testDate, tt.start, 60, tt.excludeID)
			if got.HasConflict != tt.want {
				t.Errorf("expected conflict=%v, got %+v", tt.want, got)
			}
		})
	}

	got := svc.CheckCoachConflict(ctx, 5, testDate, "10:30", 60, 0)
	want := "coach #5 is already assigned to Booking 1 (10:00-11:00)"
	if got.Reason != want {
		t.Errorf("unexpected reason:\n got: %s\nwant: %s", got.Reason, want)
	}
}

func TestCheckDriverConflict(t *testing.T) {
	store := &mockStore{bookings: []*model.Booking{
		staffBooking(2, "14:00", 60, nil, []int64{5}),
	}}
	svc := newTestService(store)
	ctx := context.Background()

	if got := svc.CheckDriverConflict(ctx, 5, testDate, "14:30", 30, 0); !got.HasConflict {
		t.Error("expected driver conflict")
	}
	if got := svc.CheckDriverConflict(ctx, 6, testDate, "14:30", 30, 0); got.HasConflict {
		t.Errorf("expected other driver to be free, got %+v", got)
	}
	if store.count("driver") != 2 || store.count("coach") != 0 {
		t.Errorf("expected only driver reads, got %v", store.calls)
	}
}

func TestCheckCoachConflict_SingleRead(t *testing.T) {
	store := &mockStore{}
	newTestService(store).CheckCoachConflict(context.Background(), 5, testDate, "10:00", 60, 0)
	if store.total() != 1 {
		t.Errorf("expected one joined read, got %d", store.total())
	}
}

func TestCheckCoachConflict_StoreFailure(t *testing.T) {
	store := &mockStore{findCoachBookingsFunc: failing[*model.Booking]}

	got := newTestService(store).CheckCoachConflict(context.Background(), 5, testDate, "10:00", 60, 0)
	if !got.HasConflict || got.Reason != ReasonCheckFailed {
		t.Errorf("expected fail closed, got %+v", got)
	}

	got = newTestService(store, failOpenExclusivity).CheckCoachConflict(context.Background(), 5, testDate, "10:00", 60, 0)
	if got.HasConflict || got.Err == nil {
		t.Errorf("expected fail open with error attached, got %+v", got)
	}
}
