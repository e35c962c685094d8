package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	coreerrs "github.com/yungbote/leetcoach-backend/internal/pkg/errors"
)

func TestFromError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", fmt.Errorf("review: %w", coreerrs.ErrNotFound), http.StatusNotFound, "not_found"},
		{"invalid", fmt.Errorf("goal: %w", coreerrs.ErrInvalidArgument), http.StatusBadRequest, "invalid_request"},
		{"conflict", coreerrs.ErrConflict, http.StatusConflict, "conflict"},
		{"state", coreerrs.ErrInvalidState, http.StatusConflict, "invalid_state"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "op_failed"},
		{"passthrough", New(http.StatusTooManyRequests, "rate_limited", nil), http.StatusTooManyRequests, "rate_limited"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := FromError(tc.err, "op_failed")
			if got.Status != tc.status || got.Code != tc.code {
				t.Fatalf("got %d/%s want %d/%s", got.Status, got.Code, tc.status, tc.code)
			}
		})
	}
	if FromError(nil, "x") != nil {
		t.Fatalf("expected nil for nil error")
	}
}
