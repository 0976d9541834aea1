package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestErrorCodesAndStatuses(t *testing.T) {
	tests := []struct {
		name   string
		err    *PastaError
		code   ErrorCode
		status int
	}{
		{"invalid request", NewInvalidRequest("bad input"), ErrInvalidRequest, 400},
		{"not found", NewNotFound("01ABC"), ErrNotFound, 404},
		{"too large", NewEntryTooLarge(100, 200), ErrEntryTooLarge, 413},
		{"internal", NewInternal(stderrors.New("boom")), ErrInternal, 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.code)
			}
			if tt.err.Status != tt.status {
				t.Errorf("Status = %d, want %d", tt.err.Status, tt.status)
			}
		})
	}
}

func TestErrorString(t *testing.T) {
	err := NewInvalidRequest("content is required")
	if !strings.Contains(err.Error(), "INVALID_REQUEST") {
		t.Errorf("Error() = %q, want it to contain the code", err.Error())
	}
	if !strings.Contains(err.Error(), "content is required") {
		t.Errorf("Error() = %q, want it to contain the message", err.Error())
	}
}

func TestNotFoundDetails(t *testing.T) {
	err := NewNotFound("01XYZ")
	if err.Details["id"] != "01XYZ" {
		t.Errorf("Details = %v, want id recorded", err.Details)
	}
}

func TestEntryTooLargeDetails(t *testing.T) {
	err := NewEntryTooLarge(100, 250)
	if err.Details["max_chars"] != 100 || err.Details["actual_chars"] != 250 {
		t.Errorf("Details = %v", err.Details)
	}
}

func TestIs(t *testing.T) {
	err := NewNotFound("01ABC")
	if !Is(err, ErrNotFound) {
		t.Error("Is(NewNotFound, ErrNotFound) = false")
	}
	if Is(err, ErrInternal) {
		t.Error("Is(NewNotFound, ErrInternal) = true")
	}
	if Is(stderrors.New("plain"), ErrNotFound) {
		t.Error("Is(plain error, ErrNotFound) = true")
	}
	if Is(nil, ErrNotFound) {
		t.Error("Is(nil, ErrNotFound) = true")
	}
}

func TestNewInternal_NilError(t *testing.T) {
	err := NewInternal(nil)
	if err.Message == "" {
		t.Error("NewInternal(nil) has empty message")
	}
}
