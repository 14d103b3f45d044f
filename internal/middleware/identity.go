package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/loyaltylab/reward-ledger-go/internal/httputil"

	apperrors "github.com/loyaltylab/reward-ledger-go/internal/errors"
)

type contextKey string

const UserContextKey contextKey = "userId"

// UserIDHeader carries the already-authenticated user identity. Token
// parsing and verification happen in the gateway in front of this
// service; by the time a request arrives here the header is trusted.
const UserIDHeader = "X-User-ID"

// GetUserID returns the authenticated user for the request, or "" when
// the identity middleware did not run.
func GetUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(UserContextKey).(string); ok {
		return userID
	}
	return ""
}

// IdentityMiddleware rejects requests without an upstream-authenticated
// user identity and stores the identity on the request context.
type IdentityMiddleware struct{}

func NewIdentityMiddleware() *IdentityMiddleware {
	return &IdentityMiddleware{}
}

func (m *IdentityMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if userID == "" {
			log.Warn().Str("path", r.URL.Path).Msg("request without authenticated identity")
			httputil.WriteError(w, apperrors.Unauthorized("Missing authenticated user identity"))
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
