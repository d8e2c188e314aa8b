// Package interval holds the minute-of-day arithmetic used by conflict checks.
// A day is [0, MinutesPerDay). Slots that run past midnight keep counting
// upward (e.g. 23:30 + 60min ends at 1470) so comparisons stay monotonic.
package interval

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	MinutesPerDay = 24 * 60
	DateLayout    = "2006-01-02"
)

var (
	ErrInvalidTime = errors.New("invalid time of day")
	ErrInvalidDate = errors.New("invalid date")
)

// Slot is the derived occupancy of one booking on one day.
// Start <= End <= CleanupEnd; [End, CleanupEnd) is the trailing buffer.
type Slot struct {
	Start      int `json:"start_minute"`
	End        int `json:"end_minute"`
	CleanupEnd int `json:"cleanup_end_minute"`
}

func BuildSlot(start, durationMin, bufferMin int) Slot {
	end := start + durationMin
	return Slot{
		Start:      start,
		End:        end,
		CleanupEnd: end + bufferMin,
	}
}

func (s Slot) Buffer() int {
	return s.CleanupEnd - s.End
}

// Occupancy is how long a booking holds its resource: the booked duration
// plus the idle buffer that must follow it.
type Occupancy struct {
	DurationMin int
	BufferMin   int
}

func (o Occupancy) Slot(start int) Slot {
	return BuildSlot(start, o.DurationMin, o.BufferMin)
}

// Overlaps reports whether two slots cannot share a resource. It is
// symmetric. The buffer window is half-open, so a booking may start exactly
// at the other's CleanupEnd.
func Overlaps(a, b Slot) bool {
	if inBuffer(a.Start, b) || inBuffer(b.Start, a) {
		return true
	}
	return a.Start < b.End && b.Start < a.End
}

func inBuffer(minute int, s Slot) bool {
	return minute >= s.End && minute < s.CleanupEnd
}

// Intersects is the plain half-open interval test, ignoring buffers.
func Intersects(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

type OverlapKind int

const (
	None OverlapKind = iota
	CandidateInExistingBuffer
	ExistingInCandidateBuffer
	Intersect
)

func (k OverlapKind) String() string {
	switch k {
	case CandidateInExistingBuffer:
		return "candidate_in_existing_buffer"
	case ExistingInCandidateBuffer:
		return "existing_in_candidate_buffer"
	case Intersect:
		return "intersect"
	default:
		return "none"
	}
}

// Classify explains why candidate and existing overlap.
func Classify(candidate, existing Slot) OverlapKind {
	switch {
	case inBuffer(candidate.Start, existing):
		return CandidateInExistingBuffer
	case inBuffer(existing.Start, candidate):
		return ExistingInCandidateBuffer
	case Intersects(candidate.Start, candidate.End, existing.Start, existing.End):
		return Intersect
	default:
		return None
	}
}

// TimeToMinutes parses "HH:MM" or "HH:MM:SS" into minutes since midnight.
// Seconds are accepted for stores that return SQL TIME values and are dropped.
func TimeToMinutes(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 || len(parts[0]) > 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	if len(parts) == 3 {
		sec, err := strconv.Atoi(parts[2])
		if err != nil || sec < 0 || sec > 59 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
		}
	}
	return h*60 + m, nil
}

// MinutesToTime formats minutes since midnight as "HH:MM". Values outside a
// single day wrap, so a slot ending at 1470 prints as "00:30".
func MinutesToTime(m int) string {
	m %= MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

func AddDays(date string, days int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, days).Format(DateLayout), nil
}

// DateSpan returns the lexicographic min and max of ISO dates. ok is false
// when dates is empty.
func DateSpan(dates []string) (from, to string, ok bool) {
	for _, d := range dates {
		if !ok {
			from, to, ok = d, d, true
			continue
		}
		if d < from {
			from = d
		}
		if d > to {
			to = d
		}
	}
	return from, to, ok
}

// FormatRange renders a slot as "HH:MM-HH:MM".
func FormatRange(s Slot) string {
	return MinutesToTime(s.Start) + "-" + MinutesToTime(s.End)
}
