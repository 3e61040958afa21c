package identity_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gongguhub/gonggu/internal/rest/middleware/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

func newRouter(m *identity.Middleware) *bunrouter.Router {
	router := bunrouter.New()
	router.Use(m.AsRESTMiddleware).WithGroup("", func(g *bunrouter.Group) {
		g.GET("/whoami", func(w http.ResponseWriter, _ bunrouter.Request) error {
			w.WriteHeader(http.StatusOK)
			return nil
		})
		g.Use(m.RequireAdmin).GET("/admin-only", func(w http.ResponseWriter, _ bunrouter.Request) error {
			w.WriteHeader(http.StatusOK)
			return nil
		})
	})

	return router
}

func TestMiddlewareRejectsMissingIdentity(t *testing.T) {
	t.Parallel()

	router := newRouter(identity.New(zap.NewNop()))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewareRejectsMalformedUserID(t *testing.T) {
	t.Parallel()

	router := newRouter(identity.New(zap.NewNop()))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(identity.HeaderUserID, "not-a-number")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewareStoresIdentity(t *testing.T) {
	t.Parallel()

	m := identity.New(zap.NewNop())
	router := bunrouter.New()

	var gotUserID int64

	var gotAdmin bool

	router.Use(m.AsRESTMiddleware).GET("/whoami", func(w http.ResponseWriter, req bunrouter.Request) error {
		gotUserID = identity.UserIDFromContext(req.Context())
		gotAdmin = identity.IsAdmin(req.Context())
		w.WriteHeader(http.StatusOK)

		return nil
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(identity.HeaderUserID, "42")
	req.Header.Set(identity.HeaderRole, identity.RoleAdmin)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), gotUserID)
	assert.True(t, gotAdmin)
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	router := newRouter(identity.New(zap.NewNop()))

	t.Run("non-admin is forbidden", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
		req.Header.Set(identity.HeaderUserID, "42")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin passes", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
		req.Header.Set(identity.HeaderUserID, "42")
		req.Header.Set(identity.HeaderRole, identity.RoleAdmin)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
