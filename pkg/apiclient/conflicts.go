package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"fleetbook/pkg/model"
)

const (
	degradedHeader  = "X-Conflict-Degraded"
	requestIDHeader = "X-Request-ID"
	clientIDHeader  = "X-Client-ID"
)

type Availability struct {
	Unavailable bool   `json:"is_unavailable"`
	Reason      string `json:"reason,omitempty"`
}

type Conflict struct {
	HasConflict bool   `json:"has_conflict"`
	Reason      string `json:"reason,omitempty"`
}

type CoachConflict struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type CoachesConflict struct {
	HasConflict     bool            `json:"has_conflict"`
	ConflictCoaches []CoachConflict `json:"conflict_coaches"`
}

type Decision struct {
	Allowed bool   `json:"allowed"`
	Stage   string `json:"stage,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// Meta describes how the server reached a verdict. Degraded is true when a
// store failure was resolved by the server's failure policy.
type Meta struct {
	RequestID string
	Degraded  bool
}

// APIError is returned for any non-200 answer.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("conflict service returned %d: %s", e.StatusCode, e.Message)
}

type ConflictClient struct {
	httpClient *HttpClient
}

// NewConflictClient returns a client for the service at baseURL. clientID
// identifies the caller for rate limiting and may be empty.
func NewConflictClient(baseURL, clientID string) *ConflictClient {
	hc := NewHttpClient(baseURL)
	if clientID != "" {
		hc.Headers[clientIDHeader] = clientID
	}
	return &ConflictClient{httpClient: hc}
}

func (c *ConflictClient) HTTP() *HttpClient {
	return c.httpClient
}

func (c *ConflictClient) CheckAvailability(ctx context.Context, req model.AvailabilityRequest) (Availability, Meta, error) {
	var out Availability
	meta, err := c.post(ctx, "/api/v1/conflicts/availability", req, &out)
	return out, meta, err
}

func (c *ConflictClient) CheckBoat(ctx context.Context, req model.BoatConflictRequest) (Conflict, Meta, error) {
	var out Conflict
	meta, err := c.post(ctx, "/api/v1/conflicts/boat", req, &out)
	return out, meta, err
}

func (c *ConflictClient) CheckCoach(ctx context.Context, req model.StaffConflictRequest) (Conflict, Meta, error) {
	var out Conflict
	meta, err := c.post(ctx, "/api/v1/conflicts/coach", req, &out)
	return out, meta, err
}

func (c *ConflictClient) CheckDriver(ctx context.Context, req model.StaffConflictRequest) (Conflict, Meta, error) {
	var out Conflict
	meta, err := c.post(ctx, "/api/v1/conflicts/driver", req, &out)
	return out, meta, err
}

func (c *ConflictClient) CheckCoaches(ctx context.Context, req model.CoachesConflictRequest) (CoachesConflict, Meta, error) {
	var out CoachesConflict
	meta, err := c.post(ctx, "/api/v1/conflicts/coaches", req, &out)
	return out, meta, err
}

func (c *ConflictClient) CheckBooking(ctx context.Context, candidate model.Candidate) (Decision, Meta, error) {
	var out Decision
	meta, err := c.post(ctx, "/api/v1/conflicts/booking", candidate, &out)
	return out, meta, err
}

// CheckBookings decides candidates in one call. A nil lookaheadDays uses
// the server default.
func (c *ConflictClient) CheckBookings(ctx context.Context, candidates []model.Candidate, lookaheadDays *int) ([]Decision, Meta, error) {
	var out []Decision
	req := model.BookingsCheckRequest{Candidates: candidates, LookaheadDays: lookaheadDays}
	meta, err := c.post(ctx, "/api/v1/conflicts/bookings", req, &out)
	return out, meta, err
}

func (c *ConflictClient) post(ctx context.Context, path string, body, target any) (Meta, error) {
	resp, err := c.httpClient.POST(ctx, path, body)
	if err != nil {
		return Meta{}, err
	}
	meta := Meta{
		RequestID: resp.Header.Get(requestIDHeader),
		Degraded:  resp.Header.Get(degradedHeader) == "true",
	}
	if resp.StatusCode != http.StatusOK {
		return meta, &APIError{StatusCode: resp.StatusCode, Message: GetErrorMessage(resp)}
	}

	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := resp.DecodeJSON(&wrapper); err != nil {
		return meta, fmt.Errorf("could not decode response wrapper: %w", err)
	}
	if err := json.Unmarshal(wrapper.Data, target); err != nil {
		return meta, fmt.Errorf("could not decode response data: %w", err)
	}
	return meta, nil
}
