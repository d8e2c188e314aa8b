package interval

import (
	"errors"
	"math/rand"
	"testing"
)

func TestTimeToMinutes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "midnight", input: "00:00", want: 0},
		{name: "morning", input: "10:00", want: 600},
		{name: "with seconds", input: "11:15:00", want: 675},
		{name: "last minute", input: "23:59", want: 1439},
		{name: "single digit hour", input: "9:05", want: 545},
		{name: "hour out of range", input: "24:00", wantErr: true},
		{name: "minute out of range", input: "10:60", wantErr: true},
		{name: "missing minutes", input: "10", wantErr: true},
		{name: "garbage", input: "ab:cd", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TimeToMinutes(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTime) {
					t.Fatalf("expected ErrInvalidTime, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestMinutesToTime_RoundTrip(t *testing.T) {
	for m := 0; m < MinutesPerDay; m++ {
		got, err := TimeToMinutes(MinutesToTime(m))
		if err != nil {
			t.Fatalf("minute %d: unexpected error: %v", m, err)
		}
		if got != m {
			t.Fatalf("minute %d: round trip returned %d", m, got)
		}
	}
}

func TestMinutesToTime_WrapsPastMidnight(t *testing.T) {
	if got := MinutesToTime(1470); got != "00:30" {
		t.Errorf("expected 00:30, got %s", got)
	}
	if got := MinutesToTime(-30); got != "23:30" {
		t.Errorf("expected 23:30, got %s", got)
	}
}

func TestBuildSlot_CleanupEnd(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		start := rng.Intn(MinutesPerDay)
		duration := 1 + rng.Intn(240)
		buffer := rng.Intn(60)
		s := BuildSlot(start, duration, buffer)
		if s.CleanupEnd != start+duration+buffer {
			t.Fatalf("cleanup end %d != %d", s.CleanupEnd, start+duration+buffer)
		}
		if s.Buffer() != buffer {
			t.Fatalf("buffer %d != %d", s.Buffer(), buffer)
		}
	}
}

func TestOverlaps_Symmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		a := BuildSlot(rng.Intn(MinutesPerDay), 1+rng.Intn(180), rng.Intn(30))
		b := BuildSlot(rng.Intn(MinutesPerDay), 1+rng.Intn(180), rng.Intn(30))
		if Overlaps(a, b) != Overlaps(b, a) {
			t.Fatalf("asymmetric overlap for %+v and %+v", a, b)
		}
	}
}

func TestOverlaps_BufferBoundary(t *testing.T) {
	existing := BuildSlot(600, 60, 15)
	if existing.End != 660 || existing.CleanupEnd != 675 {
		t.Fatalf("unexpected slot %+v", existing)
	}

	tests := []struct {
		name      string
		candidate Slot
		want      bool
		kind      OverlapKind
	}{
		{name: "starts inside buffer", candidate: BuildSlot(670, 30, 15), want: true, kind: CandidateInExistingBuffer},
		{name: "starts when buffer ends", candidate: BuildSlot(675, 30, 15), want: false, kind: None},
		{name: "starts right at end", candidate: BuildSlot(660, 30, 0), want: true, kind: CandidateInExistingBuffer},
		{name: "plain overlap", candidate: BuildSlot(630, 60, 15), want: true, kind: Intersect},
		{name: "candidate buffer hit", candidate: BuildSlot(540, 50, 15), want: true, kind: ExistingInCandidateBuffer},
		{name: "candidate ends with buffer before", candidate: BuildSlot(500, 85, 15), want: false, kind: None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.candidate, existing); got != tt.want {
				t.Errorf("expected overlap=%v, got %v", tt.want, got)
			}
			if got := Classify(tt.candidate, existing); got != tt.kind {
				t.Errorf("expected kind %s, got %s", tt.kind, got)
			}
		})
	}
}

func TestOverlaps_TouchingWithoutBuffer(t *testing.T) {
	a := BuildSlot(600, 60, 0)
	b := BuildSlot(660, 60, 0)
	if Overlaps(a, b) {
		t.Error("back-to-back slots without buffer must not overlap")
	}
}

func TestDateSpan(t *testing.T) {
	from, to, ok := DateSpan([]string{"2026-02-10", "2026-02-03", "2026-02-07"})
	if !ok || from != "2026-02-03" || to != "2026-02-10" {
		t.Errorf("unexpected span %s..%s (ok=%v)", from, to, ok)
	}
	if _, _, ok := DateSpan(nil); ok {
		t.Error("empty input must report ok=false")
	}
}

func TestAddDays(t *testing.T) {
	got, err := AddDays("2026-02-27", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "2026-03-02" {
		t.Errorf("expected 2026-03-02, got %s", got)
	}
	if _, err := AddDays("02/27/2026", 1); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
}
