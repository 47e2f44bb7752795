package errors

import (
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
}

func TestWrap(t *testing.T) {
	originalErr := errors.New("connection refused")
	wrapped := Wrap(originalErr, CodeInternal, "internal error", http.StatusInternalServerError)

	if wrapped.Err != originalErr {
		t.Errorf("expected wrapped error to contain original error")
	}
	if wrapped.Code != CodeInternal {
		t.Errorf("expected code %s, got %s", CodeInternal, wrapped.Code)
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "resource not found",
			},
			expected: "NOT_FOUND: resource not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("connection refused"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: connection refused)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appErr.Error()
			if got != tt.expected {
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

func TestInvalidInterval_Details(t *testing.T) {
	start := time.Date(2024, 3, 1, 16, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC)

	err := InvalidInterval(start, end)

	if err.Code != CodeInvalidInterval {
		t.Errorf("expected code %s, got %s", CodeInvalidInterval, err.Code)
	}
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, err.HTTPStatus)
	}
	if err.Details["starts_at"] != "2024-03-01T16:00:00Z" {
		t.Errorf("expected starts_at detail, got %v", err.Details["starts_at"])
	}
	if err.Details["ends_at"] != "2024-03-01T14:00:00Z" {
		t.Errorf("expected ends_at detail, got %v", err.Details["ends_at"])
	}
}

func TestAlreadyCancelled(t *testing.T) {
	err := AlreadyCancelled("abc123")

	if err.Code != CodeAlreadyCancelled {
		t.Errorf("expected code %s, got %s", CodeAlreadyCancelled, err.Code)
	}
	if err.Details["reservation_id"] != "abc123" {
		t.Errorf("expected reservation_id detail, got %v", err.Details["reservation_id"])
	}
}

func TestStorageUnavailable_IsRetryable(t *testing.T) {
	cause := errors.New("no reachable servers")
	err := StorageUnavailable(cause)

	if err.Code != CodeStorageUnavailable {
		t.Errorf("expected code %s, got %s", CodeStorageUnavailable, err.Code)
	}
	if err.HTTPStatus != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, err.HTTPStatus)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("expected cause to be preserved for logging")
	}
}

func TestAsAppError(t *testing.T) {
	appErr := Conflict("overlap")
	if AsAppError(appErr) != appErr {
		t.Errorf("AsAppError should pass through an AppError unchanged")
	}

	plain := errors.New("boom")
	converted := AsAppError(plain)
	if converted.Code != CodeInternal {
		t.Errorf("expected plain errors to convert to %s, got %s", CodeInternal, converted.Code)
	}
}
