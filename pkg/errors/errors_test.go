package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusBadRequest)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, err.HTTPStatus)
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			appErr:   &AppError{Code: CodeNotFound, Message: "booking not found"},
			expected: "NOT_FOUND: booking not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("connection reset"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: connection reset)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	appErr := Wrap(originalErr, CodeInternal, "wrapped", http.StatusInternalServerError)

	if errors.Unwrap(appErr) != originalErr {
		t.Errorf("Unwrap() should return original error")
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"not found", NotFound("Booking"), CodeNotFound, http.StatusNotFound},
		{"not found with id", NotFoundWithID("Exchange", int64(7)), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("bad", nil), CodeValidation, http.StatusBadRequest},
		{"missing field", MissingField("objectId", "userId"), CodeMissingField, http.StatusBadRequest},
		{"invalid input", InvalidInput("bad"), CodeInvalidInput, http.StatusBadRequest},
		{"invalid status", InvalidStatus("archived"), CodeInvalidStatus, http.StatusBadRequest},
		{"invalid action", InvalidAction("cancel"), CodeInvalidAction, http.StatusBadRequest},
		{"invalid state", InvalidState("not confirmed"), CodeInvalidState, http.StatusBadRequest},
		{"already decided", AlreadyDecided("exchange"), CodeAlreadyDecided, http.StatusBadRequest},
		{"night mismatch", NightCountMismatch(4, 3), CodeNightCountMismatch, http.StatusBadRequest},
		{"same object", SameObject(), CodeSameObject, http.StatusBadRequest},
		{"forbidden", Forbidden("not yours"), CodeForbidden, http.StatusForbidden},
		{"conflict", Conflict("exists"), CodeConflict, http.StatusConflict},
		{"date range conflict", DateRangeConflict("taken"), CodeDateRangeConflict, http.StatusConflict},
		{"internal", Internal("boom", nil), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("slow"), CodeTimeout, http.StatusGatewayTimeout},
		{"unavailable", Unavailable("Database"), CodeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("code = %s, want %s", tt.err.Code, tt.code)
			}
			if tt.err.StatusCode() != tt.status {
				t.Errorf("status = %d, want %d", tt.err.StatusCode(), tt.status)
			}
			if tt.err.Message == "" {
				t.Error("message should not be empty")
			}
		})
	}
}

func TestMissingField_Details(t *testing.T) {
	err := MissingField("startDate", "endDate")

	if err.Message != "startDate, endDate required" {
		t.Errorf("unexpected message %q", err.Message)
	}
	fields, ok := err.Details["fields"].([]string)
	if !ok || len(fields) != 2 {
		t.Fatalf("expected two fields in details, got %v", err.Details["fields"])
	}
}

func TestNightCountMismatch_Details(t *testing.T) {
	err := NightCountMismatch(4, 2)

	if err.Details["expected_nights"] != 4 || err.Details["nights"] != 2 {
		t.Errorf("unexpected details %v", err.Details)
	}
}

func TestIsAppError(t *testing.T) {
	appErr := NotFound("User")
	wrapped := fmt.Errorf("lookup: %w", appErr)

	if !IsAppError(appErr) {
		t.Errorf("IsAppError() should return true for AppError")
	}
	if !IsAppError(wrapped) {
		t.Errorf("IsAppError() should see through wrapping")
	}
	if IsAppError(errors.New("regular error")) {
		t.Errorf("IsAppError() should return false for regular error")
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("settle: %w", DateRangeConflict("taken"))

	if !HasCode(err, CodeDateRangeConflict) {
		t.Error("expected DATE_RANGE_CONFLICT code")
	}
	if HasCode(err, CodeNotFound) {
		t.Error("did not expect NOT_FOUND code")
	}
	if HasCode(errors.New("plain"), CodeInternal) {
		t.Error("plain errors carry no code")
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFound("User")
	regularErr := errors.New("regular error")

	if AsAppError(appErr) != appErr {
		t.Errorf("AsAppError() should return same AppError")
	}

	result := AsAppError(regularErr)
	if result.Code != CodeInternal {
		t.Errorf("AsAppError() should wrap regular error as internal error")
	}
	if result.Err != regularErr {
		t.Errorf("AsAppError() should wrap the original error")
	}
}

func TestAppError_ToJSON(t *testing.T) {
	err := NotFoundWithID("Booking", int64(12))

	var body map[string]any
	if jsonErr := json.Unmarshal(err.ToJSON(), &body); jsonErr != nil {
		t.Fatalf("ToJSON() produced invalid JSON: %v", jsonErr)
	}
	if body["error"] != "Booking not found" {
		t.Errorf("expected error message, got %v", body["error"])
	}
	if body["code"] != CodeNotFound {
		t.Errorf("expected code, got %v", body["code"])
	}
	details, ok := body["details"].(map[string]any)
	if !ok || details["resource"] != "Booking" {
		t.Errorf("expected details with resource, got %v", body["details"])
	}
}
