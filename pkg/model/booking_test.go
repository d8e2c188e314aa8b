package model

import (
	"testing"

	"fleetbook/pkg/config"
	"fleetbook/pkg/interval"
)

func intPtr(v int) *int { return &v }

func TestBooking_Slot(t *testing.T) {
	buffers := config.Buffers{DefaultMin: 15, FacilityMin: 0}

	tests := []struct {
		name     string
		booking  Booking
		facility bool
		want     interval.Slot
		wantErr  bool
	}{
		{
			name:    "default buffer",
			booking: Booking{StartTime: "10:00", DurationMin: 90},
			want:    interval.Slot{Start: 600, End: 690, CleanupEnd: 705},
		},
		{
			name:    "stored cleanup wins",
			booking: Booking{StartTime: "10:00", DurationMin: 90, CleanupMin: intPtr(30)},
			want:    interval.Slot{Start: 600, End: 690, CleanupEnd: 720},
		},
		{
			name:    "stored zero cleanup",
			booking: Booking{StartTime: "10:00", DurationMin: 90, CleanupMin: intPtr(0)},
			want:    interval.Slot{Start: 600, End: 690, CleanupEnd: 690},
		},
		{
			name:    "negative stored cleanup falls back",
			booking: Booking{StartTime: "10:00", DurationMin: 90, CleanupMin: intPtr(-5)},
			want:    interval.Slot{Start: 600, End: 690, CleanupEnd: 705},
		},
		{
			name:     "facility has no default buffer",
			booking:  Booking{StartTime: "10:00", DurationMin: 60},
			facility: true,
			want:     interval.Slot{Start: 600, End: 660, CleanupEnd: 660},
		},
		{
			name:     "facility ignores stored cleanup",
			booking:  Booking{StartTime: "10:00", DurationMin: 60, CleanupMin: intPtr(30)},
			facility: true,
			want:     interval.Slot{Start: 600, End: 660, CleanupEnd: 660},
		},
		{
			name:    "malformed start",
			booking: Booking{StartTime: "ten", DurationMin: 90},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.booking.Slot(buffers, tt.facility)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Slot() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBooking_StaffSlot(t *testing.T) {
	b := Booking{StartTime: "09:30", DurationMin: 60, CleanupMin: intPtr(30)}
	got, err := b.StaffSlot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := interval.Slot{Start: 570, End: 630, CleanupEnd: 630}
	if got != want {
		t.Errorf("StaffSlot() = %+v, want %+v", got, want)
	}
}

func TestBooking_Assignments(t *testing.T) {
	b := Booking{CoachIDs: []int64{1, 4}, DriverIDs: []int64{9}}

	if !b.HasCoach(4) || b.HasCoach(9) {
		t.Error("HasCoach mismatch")
	}
	if !b.HasDriver(9) || b.HasDriver(1) {
		t.Error("HasDriver mismatch")
	}
}
