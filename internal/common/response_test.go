package common

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestRespondWithDomainErrorHidesInternalsInProduction(t *testing.T) {
	SetProductionMode(true)
	t.Cleanup(func() { SetProductionMode(false) })

	internal := fmt.Errorf("failed to probe user store: dial tcp 10.0.0.5:8000: connection refused")
	rec := httptest.NewRecorder()
	RespondWithDomainError(rec, internal)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	resp := decodeError(t, rec)
	if resp.Message != "Internal server error" {
		t.Fatalf("message = %q, want the generic 500 message", resp.Message)
	}
}

func TestRespondWithDomainErrorKeepsDetailInDevelopment(t *testing.T) {
	SetProductionMode(false)

	internal := fmt.Errorf("failed to probe user store: %w", ErrInternalServer)
	rec := httptest.NewRecorder()
	RespondWithDomainError(rec, internal)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Message != internal.Error() {
		t.Fatalf("message = %q, want %q", resp.Message, internal.Error())
	}
}

func TestRespondWithDomainErrorKeepsClientErrorDetail(t *testing.T) {
	SetProductionMode(true)
	t.Cleanup(func() { SetProductionMode(false) })

	conflict := fmt.Errorf("user with this email already exists: %w", ErrConflict)
	rec := httptest.NewRecorder()
	RespondWithDomainError(rec, conflict)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	// Only the generic 500 is sanitized; 4xx messages are the client's to see.
	if resp := decodeError(t, rec); resp.Message != conflict.Error() {
		t.Fatalf("message = %q, want %q", resp.Message, conflict.Error())
	}
}
