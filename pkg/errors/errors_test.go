package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := Wrap(cause, CodeInvalidInput, "Invalid request body", http.StatusBadRequest)

	if wrapped.Err != cause {
		t.Errorf("expected wrapped error to keep its cause")
	}
	if !errors.Is(wrapped, cause) {
		t.Errorf("errors.Is should see the cause through Unwrap")
	}
	if wrapped.StatusCode() != http.StatusBadRequest {
		t.Errorf("StatusCode() = %d, want %d", wrapped.StatusCode(), http.StatusBadRequest)
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  New(CodeInvalidInput, "bad body", http.StatusBadRequest),
			want: "INVALID_INPUT: bad body",
		},
		{
			name: "with cause",
			err:  StoreQuery("booking store unavailable", errors.New("timeout")),
			want: "STORE_QUERY_ERROR: booking store unavailable (caused by: timeout)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
		wantMsg    string
	}{
		{name: "not found", err: NotFound("/api/v1/nope"), wantCode: CodeNotFound, wantStatus: http.StatusNotFound, wantMsg: "no route for /api/v1/nope"},
		{name: "method not allowed", err: MethodNotAllowed("GET", "/api/v1/conflicts/boat"), wantCode: CodeMethodNotAllowed, wantStatus: http.StatusMethodNotAllowed, wantMsg: "GET is not allowed on /api/v1/conflicts/boat"},
		{name: "validation", err: Validation("Validation failed", nil), wantCode: CodeValidation, wantStatus: http.StatusUnprocessableEntity, wantMsg: "Validation failed"},
		{name: "invalid input", err: InvalidInput("Request body too large"), wantCode: CodeInvalidInput, wantStatus: http.StatusBadRequest, wantMsg: "Request body too large"},
		{name: "internal", err: Internal("boom", nil), wantCode: CodeInternal, wantStatus: http.StatusInternalServerError, wantMsg: "boom"},
		{name: "store query", err: StoreQuery("store down", nil), wantCode: CodeStoreQuery, wantStatus: http.StatusServiceUnavailable, wantMsg: "store down"},
		{name: "timeout", err: Timeout("Request timeout"), wantCode: CodeTimeout, wantStatus: http.StatusGatewayTimeout, wantMsg: "Request timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", tt.err.Code, tt.wantCode)
			}
			if tt.err.HTTPStatus != tt.wantStatus {
				t.Errorf("status = %d, want %d", tt.err.HTTPStatus, tt.wantStatus)
			}
			if tt.err.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", tt.err.Message, tt.wantMsg)
			}
		})
	}
}

func TestAppError_WithDetails(t *testing.T) {
	err := Validation("Validation failed", nil).WithDetails(map[string]any{"field": "duration_min"})
	if err.Details["field"] != "duration_min" {
		t.Errorf("details = %v", err.Details)
	}
}

func TestIsAppError(t *testing.T) {
	appErr := InvalidInput("bad")

	if !IsAppError(appErr) {
		t.Errorf("IsAppError() should return true for AppError")
	}
	if !IsAppError(fmt.Errorf("decode: %w", appErr)) {
		t.Errorf("IsAppError() should return true for a wrapped AppError")
	}
	if IsAppError(errors.New("plain")) {
		t.Errorf("IsAppError() should return false for regular error")
	}
}

func TestAsAppError(t *testing.T) {
	appErr := InvalidInput("bad")
	if AsAppError(fmt.Errorf("decode: %w", appErr)) != appErr {
		t.Errorf("AsAppError() should find an AppError through wrapping")
	}

	deadline := fmt.Errorf("find bookings: %w", context.DeadlineExceeded)
	if got := AsAppError(deadline); got.Code != CodeTimeout || !errors.Is(got, context.DeadlineExceeded) {
		t.Errorf("AsAppError(deadline) = %+v", got)
	}

	plain := errors.New("regular error")
	got := AsAppError(plain)
	if got.Code != CodeInternal {
		t.Errorf("AsAppError() should wrap regular error as internal error")
	}
	if got.Err != plain {
		t.Errorf("AsAppError() should keep the original error")
	}
}
