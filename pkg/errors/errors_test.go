package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConstructorsStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"unauthorized", Unauthorized("no actor"), CodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", Forbidden("not yours"), CodeForbidden, http.StatusForbidden},
		{"not found", NotFound("Room"), CodeNotFound, http.StatusNotFound},
		{"invalid input", InvalidInput("bad date"), CodeInvalidInput, http.StatusBadRequest},
		{"validation", Validation("invalid booking", nil), CodeValidation, http.StatusBadRequest},
		{"conflict", Conflict("room taken"), CodeConflict, http.StatusConflict},
		{"internal", Internal("db down", errors.New("eof")), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("slow"), CodeTimeout, http.StatusGatewayTimeout},
		{"unavailable", Unavailable("mongo"), CodeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.wantCode {
				t.Errorf("code = %s, want %s", tc.err.Code, tc.wantCode)
			}
			if tc.err.StatusCode() != tc.wantStatus {
				t.Errorf("status = %d, want %d", tc.err.StatusCode(), tc.wantStatus)
			}
		})
	}
}

func TestNotFoundWithIDDetails(t *testing.T) {
	err := NotFoundWithID("Booking", "abc123")
	if err.Details["resource"] != "Booking" || err.Details["id"] != "abc123" {
		t.Errorf("unexpected details: %v", err.Details)
	}
}

func TestErrorFormatting(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("failed to save booking", cause)

	want := fmt.Sprintf("%s: failed to save booking (caused by: %v)", CodeInternal, cause)
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	if !errors.Is(err, cause) {
		t.Error("expected Unwrap to expose the cause")
	}

	bare := Conflict("taken")
	if bare.Error() != CodeConflict+": taken" {
		t.Errorf("Error() = %q", bare.Error())
	}
}

func TestToJSONOmitsInternals(t *testing.T) {
	err := Validation("invalid booking", map[string]any{"end_date": "end date before start date"})
	err.Err = errors.New("should not appear")

	var decoded map[string]any
	if jsonErr := json.Unmarshal(err.ToJSON(), &decoded); jsonErr != nil {
		t.Fatalf("invalid JSON: %v", jsonErr)
	}

	if decoded["code"] != CodeValidation {
		t.Errorf("code = %v", decoded["code"])
	}
	if _, leaked := decoded["Err"]; leaked {
		t.Error("internal cause leaked into JSON")
	}
	details, ok := decoded["details"].(map[string]any)
	if !ok || details["end_date"] != "end date before start date" {
		t.Errorf("details missing or wrong: %v", decoded["details"])
	}
}

func TestAsAppError(t *testing.T) {
	orig := Conflict("taken")
	if got := AsAppError(orig); got != orig {
		t.Error("AppError should pass through unchanged")
	}

	wrapped := AsAppError(errors.New("raw storage failure"))
	if wrapped.Code != CodeInternal {
		t.Errorf("code = %s, want %s", wrapped.Code, CodeInternal)
	}
	if wrapped.Message == "raw storage failure" {
		t.Error("raw error message must not be client-facing")
	}

	if IsAppError(errors.New("nope")) {
		t.Error("IsAppError on plain error")
	}
	if !IsAppError(orig) {
		t.Error("IsAppError on AppError")
	}
}
