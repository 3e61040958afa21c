package identity

import (
	"context"
	"net/http"
	"strconv"

	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// The fronting auth provider verifies credentials and forwards the caller
// identity in these headers. This service trusts them and never
// re-validates.
const (
	HeaderUserID = "X-User-ID"
	HeaderRole   = "X-User-Role"
)

// RoleAdmin marks back-office callers allowed on privileged routes.
const RoleAdmin = "admin"

type (
	userIDCtxKey struct{}
	roleCtxKey   struct{}
)

// UserIDFromContext retrieves the caller's user ID from the context.
func UserIDFromContext(ctx context.Context) int64 {
	if id, ok := ctx.Value(userIDCtxKey{}).(int64); ok {
		return id
	}

	return 0
}

// RoleFromContext retrieves the caller's role from the context.
func RoleFromContext(ctx context.Context) string {
	if role, ok := ctx.Value(roleCtxKey{}).(string); ok {
		return role
	}

	return ""
}

// IsAdmin checks if the context carries an elevated role claim.
func IsAdmin(ctx context.Context) bool {
	return RoleFromContext(ctx) == RoleAdmin
}

// Middleware extracts the verified caller identity from request headers.
type Middleware struct {
	logger *zap.Logger
}

// New creates a new identity middleware.
func New(logger *zap.Logger) *Middleware {
	return &Middleware{
		logger: logger,
	}
}

// AsRESTMiddleware returns a bunrouter middleware handler that stores the
// caller identity in the request context. Requests without a valid user
// ID are rejected.
func (m *Middleware) AsRESTMiddleware(next bunrouter.HandlerFunc) bunrouter.HandlerFunc {
	return func(w http.ResponseWriter, req bunrouter.Request) error {
		userID, err := strconv.ParseInt(req.Header.Get(HeaderUserID), 10, 64)
		if err != nil || userID <= 0 {
			m.logger.Debug("Request missing valid user identity",
				zap.String("remoteAddr", req.RemoteAddr))
			http.Error(w, "Missing or invalid user identity", http.StatusUnauthorized)

			return nil
		}

		ctx := context.WithValue(req.Context(), userIDCtxKey{}, userID)
		ctx = context.WithValue(ctx, roleCtxKey{}, req.Header.Get(HeaderRole))

		return next(w, req.WithContext(ctx))
	}
}

// RequireAdmin returns a bunrouter middleware handler that rejects callers
// without an elevated role claim.
func (m *Middleware) RequireAdmin(next bunrouter.HandlerFunc) bunrouter.HandlerFunc {
	return func(w http.ResponseWriter, req bunrouter.Request) error {
		if !IsAdmin(req.Context()) {
			m.logger.Debug("Non-admin caller on privileged route",
				zap.Int64("userID", UserIDFromContext(req.Context())),
				zap.String("path", req.URL.Path))
			http.Error(w, "Admin role required", http.StatusForbidden)

			return nil
		}

		return next(w, req)
	}
}
