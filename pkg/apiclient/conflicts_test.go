package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"fleetbook/pkg/model"
)

func TestConflictClient_CheckBoat(t *testing.T) {
	var gotPath, gotClient, gotContentType string
	var gotBody model.BoatConflictRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotClient = r.Header.Get(clientIDHeader)
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set(requestIDHeader, "req-1")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"has_conflict":true,"reason":"This booking (11:15-12:15) overlaps Morning tour (11:00-12:00)"}}`))
	}))
	defer srv.Close()

	c := NewConflictClient(srv.URL, "workflow-a")
	res, meta, err := c.CheckBoat(context.Background(), model.BoatConflictRequest{
		BoatID: 1, Date: "2026-02-05", StartTime: "11:15", DurationMin: 60,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/api/v1/conflicts/boat" {
		t.Errorf("path = %q", gotPath)
	}
	if gotClient != "workflow-a" {
		t.Errorf("client id header = %q", gotClient)
	}
	if gotContentType != "application/json" {
		t.Errorf("content type = %q", gotContentType)
	}
	if gotBody.BoatID != 1 || gotBody.StartTime != "11:15" {
		t.Errorf("body = %+v", gotBody)
	}
	if !res.HasConflict || res.Reason == "" {
		t.Errorf("result = %+v", res)
	}
	if meta.RequestID != "req-1" || meta.Degraded {
		t.Errorf("meta = %+v", meta)
	}
}

func TestConflictClient_Degraded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(degradedHeader, "true")
		_, _ = w.Write([]byte(`{"data":{"has_conflict":true,"reason":"error while checking conflict"}}`))
	}))
	defer srv.Close()

	res, meta, err := NewConflictClient(srv.URL, "").CheckCoach(context.Background(), model.StaffConflictRequest{ID: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !meta.Degraded {
		t.Error("expected degraded verdict")
	}
	if res.Reason != "error while checking conflict" {
		t.Errorf("reason = %q", res.Reason)
	}
}

func TestConflictClient_CheckBookings(t *testing.T) {
	var got model.BookingsCheckRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"data":[{"allowed":true},{"allowed":false,"stage":"coach","reason":"coach #2 is already assigned to Trip (09:00-10:00)"}]}`))
	}))
	defer srv.Close()

	candidates := []model.Candidate{
		{BoatID: 1, Date: "2026-02-05", StartTime: "08:00", DurationMin: 60},
		{BoatID: 2, Date: "2026-02-05", StartTime: "09:00", DurationMin: 60, CoachIDs: []int64{2}},
	}
	lookahead := 3
	decisions, _, err := NewConflictClient(srv.URL, "").CheckBookings(context.Background(), candidates, &lookahead)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Candidates) != 2 || got.LookaheadDays == nil || *got.LookaheadDays != 3 {
		t.Errorf("request = %+v", got)
	}
	if len(decisions) != 2 {
		t.Fatalf("got %d decisions", len(decisions))
	}
	if !decisions[0].Allowed || decisions[1].Allowed || decisions[1].Stage != "coach" {
		t.Errorf("decisions = %+v", decisions)
	}
}

func TestConflictClient_CheckBookingsLookahead(t *testing.T) {
	var raw map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw = nil
		_ = json.NewDecoder(r.Body).Decode(&raw)
		_, _ = w.Write([]byte(`{"data":[{"allowed":true}]}`))
	}))
	defer srv.Close()

	c := NewConflictClient(srv.URL, "")
	candidates := []model.Candidate{{BoatID: 1, Date: "2026-02-05", StartTime: "08:00", DurationMin: 60}}

	if _, _, err := c.CheckBookings(context.Background(), candidates, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := raw["lookahead_days"]; ok {
		t.Errorf("nil lookahead should be omitted, got %s", raw["lookahead_days"])
	}

	zero := 0
	if _, _, err := c.CheckBookings(context.Background(), candidates, &zero); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw["lookahead_days"]) != "0" {
		t.Errorf("explicit zero lookahead should be sent, got %q", raw["lookahead_days"])
	}
}

func TestConflictClient_ErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"Validation failed","code":"VALIDATION_ERROR"}`))
	}))
	defer srv.Close()

	_, _, err := NewConflictClient(srv.URL, "").CheckBooking(context.Background(), model.Candidate{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity || apiErr.Message != "Validation failed" {
		t.Errorf("error = %+v", apiErr)
	}
}

func TestHttpClient_WaitForHealthy(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if err := NewHttpClient(srv.URL).WaitForHealthy(context.Background(), 3*time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := calls.Load(); n < 2 {
		t.Errorf("calls = %d", n)
	}
}

func TestHttpClient_WaitForHealthyTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if err := NewHttpClient(srv.URL).WaitForHealthy(context.Background(), 200*time.Millisecond); err == nil {
		t.Fatal("expected timeout error")
	}
}
