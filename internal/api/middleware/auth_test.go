package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dom/movie-catalog/internal/api/middleware"
	"github.com/dom/movie-catalog/internal/auth"
	"github.com/dom/movie-catalog/internal/config"
	"github.com/dom/movie-catalog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newIssuer(now *time.Time) *auth.TokenIssuer {
	cfg := &config.Config{
		AccessTokenSecret:  "access",
		RefreshTokenSecret: "refresh",
		AccessTokenTTL:     300 * time.Second,
		RefreshTokenTTL:    time.Hour,
	}
	return auth.NewTokenIssuer(cfg).WithClock(func() time.Time { return *now })
}

// chain mirrors how the router stacks the gates on an admin route.
func chain(tokens *auth.TokenIssuer, gates ...func(http.Handler) http.Handler) http.Handler {
	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	for i := len(gates) - 1; i >= 0; i-- {
		h = gates[i](h)
	}
	return middleware.Bearer(tokens, zap.NewNop())(h)
}

func TestGates(t *testing.T) {
	now := time.Now()
	tokens := newIssuer(&now)

	issue := func(role domain.Role, kind domain.TokenKind) string {
		token, err := tokens.Issue(1, role, kind)
		require.NoError(t, err)
		return "Bearer " + token
	}

	adminAccess := issue(domain.RoleAdmin, domain.TokenAccess)
	userAccess := issue(domain.RoleUser, domain.TokenAccess)
	paidAccess := issue(domain.RolePaidUser, domain.TokenAccess)
	adminRefresh := issue(domain.RoleAdmin, domain.TokenRefresh)

	adminOnly := chain(tokens, middleware.RequireToken(domain.TokenAccess), middleware.RequireRole(domain.RoleAdmin))
	paidOnly := chain(tokens, middleware.RequireToken(domain.TokenAccess), middleware.RequireRole(domain.RolePaidUser))
	refreshOnly := chain(tokens, middleware.RequireToken(domain.TokenRefresh))
	public := chain(tokens)

	tests := []struct {
		name          string
		handler       http.Handler
		authorization string
		wantStatus    int
		wantBody      string
	}{
		{name: "admin on admin route", handler: adminOnly, authorization: adminAccess, wantStatus: http.StatusNoContent},
		{name: "user on admin route", handler: adminOnly, authorization: userAccess, wantStatus: http.StatusForbidden},
		{name: "admin meets paid", handler: paidOnly, authorization: adminAccess, wantStatus: http.StatusNoContent},
		{name: "paid meets paid", handler: paidOnly, authorization: paidAccess, wantStatus: http.StatusNoContent},
		{name: "user below paid", handler: paidOnly, authorization: userAccess, wantStatus: http.StatusForbidden},
		{name: "no header", handler: adminOnly, wantStatus: http.StatusUnauthorized, wantBody: "Authorization required"},
		{name: "malformed header", handler: adminOnly, authorization: "Bearer", wantStatus: http.StatusBadRequest},
		{name: "garbage token", handler: adminOnly, authorization: "Bearer nope", wantStatus: http.StatusUnauthorized, wantBody: "Invalid token"},
		{name: "refresh on access route", handler: adminOnly, authorization: adminRefresh, wantStatus: http.StatusUnauthorized},
		{name: "access on refresh route", handler: refreshOnly, authorization: adminAccess, wantStatus: http.StatusUnauthorized},
		{name: "refresh on refresh route", handler: refreshOnly, authorization: adminRefresh, wantStatus: http.StatusNoContent},
		{name: "anonymous public", handler: public, wantStatus: http.StatusNoContent},
		{name: "bad token on public route", handler: public, authorization: "Bearer nope", wantStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authorization != "" {
				req.Header.Set("Authorization", tt.authorization)
			}
			rec := httptest.NewRecorder()

			tt.handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRequireToken_Expired(t *testing.T) {
	now := time.Now()
	tokens := newIssuer(&now)

	token, err := tokens.Issue(1, domain.RoleAdmin, domain.TokenAccess)
	require.NoError(t, err)

	now = now.Add(301 * time.Second)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	chain(tokens, middleware.RequireToken(domain.TokenAccess)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token expired")
}

func TestBearer_StoresPayload(t *testing.T) {
	now := time.Now()
	tokens := newIssuer(&now)

	token, err := tokens.Issue(9, domain.RolePaidUser, domain.TokenAccess)
	require.NoError(t, err)

	var got *domain.TokenPayload
	h := middleware.Bearer(tokens, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = middleware.GetPayload(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	assert.Equal(t, uint(9), got.Subject)
	assert.Equal(t, domain.RolePaidUser, got.Role)
}
