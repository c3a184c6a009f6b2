package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"gorm.io/gorm"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validation("bad"), http.StatusBadRequest},
		{NotFound("missing"), http.StatusNotFound},
		{Conflict("dup"), http.StatusConflict},
		{Unauthorized("who"), http.StatusUnauthorized},
		{TooManyRequests("slow down"), http.StatusTooManyRequests},
		{errors.New("boom"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", NotFound("deep")), http.StatusNotFound},
	}
	for _, tt := range tests {
		if got := Status(tt.err); got != tt.want {
			t.Errorf("Status(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestFromDB(t *testing.T) {
	if FromDB(nil, "x") != nil {
		t.Error("nil must stay nil")
	}

	err := FromDB(gorm.ErrRecordNotFound, "Group not found")
	if !Is(err, KindNotFound) {
		t.Fatalf("ErrRecordNotFound -> %v", err)
	}
	var e *Error
	if !errors.As(err, &e) || e.Message != "Group not found" {
		t.Errorf("message = %q", e.Message)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Error("cause must be preserved")
	}

	if !Is(FromDB(gorm.ErrDuplicatedKey, ""), KindConflict) {
		t.Error("ErrDuplicatedKey must map to conflict")
	}
	if !Is(FromDB(gorm.ErrForeignKeyViolated, ""), KindNotFound) {
		t.Error("ErrForeignKeyViolated must map to not found")
	}

	other := errors.New("disk full")
	if FromDB(other, "") != other {
		t.Error("unknown errors pass through")
	}
}
