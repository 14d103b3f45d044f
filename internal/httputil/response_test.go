package httputil

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/loyaltylab/reward-ledger-go/internal/errors"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid transaction", apperrors.InvalidTransaction("bad"), http.StatusBadRequest},
		{"unauthorized", apperrors.Unauthorized("no identity"), http.StatusUnauthorized},
		{"user unknown", apperrors.UserUnknown("u1"), http.StatusNotFound},
		{"insufficient points", apperrors.InsufficientPoints(1, 2), http.StatusConflict},
		{"rate limit exceeded", apperrors.RateLimitExceeded(), http.StatusTooManyRequests},
		{"system busy", apperrors.SystemBusy(), http.StatusServiceUnavailable},
		{"internal", apperrors.Internal("boom"), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tc.err)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}
