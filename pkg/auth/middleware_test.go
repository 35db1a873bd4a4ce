package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "clinic/pkg/errors"
	"clinic/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour, nil)
	guard := NewGuard(issuer)

	userToken, _, err := issuer.Issue(testUser())
	require.NoError(t, err)
	adminToken, _, err := issuer.Issue(&model.User{ID: "a1", Email: "admin@clinic.test", Role: model.RoleAdmin})
	require.NoError(t, err)

	var seen *Claims
	ok := func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		seen, _ = ClaimsFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}

	tests := []struct {
		name   string
		handle httprouter.Handle
		header string
		want   int
	}{
		{"no header", guard.Require(ok), "", http.StatusUnauthorized},
		{"wrong scheme", guard.Require(ok), "Basic abc", http.StatusUnauthorized},
		{"bad token", guard.Require(ok), "Bearer nope", http.StatusUnauthorized},
		{"user on user route", guard.Require(ok), "Bearer " + userToken, http.StatusNoContent},
		{"user on admin route", guard.RequireAdmin(ok), "Bearer " + userToken, http.StatusForbidden},
		{"admin on admin route", guard.RequireAdmin(ok), "Bearer " + adminToken, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			tt.handle(rec, req, nil)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusNoContent {
				require.NotNil(t, seen)
			} else {
				assert.Nil(t, seen)
			}
		})
	}
}

type roleTable map[string]model.Role

func (t roleTable) CurrentRole(_ context.Context, userID string) (model.Role, error) {
	role, ok := t[userID]
	if !ok {
		return "", apperrors.NotFoundWithID("User", userID)
	}
	return role, nil
}

func TestGuard_RoleLookupOverridesTokenRole(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour, nil)
	roles := roleTable{"a1": model.RoleAdmin}
	guard := NewGuard(issuer).WithRoleLookup(roles)

	adminToken, _, err := issuer.Issue(&model.User{ID: "a1", Email: "admin@clinic.test", Role: model.RoleAdmin})
	require.NoError(t, err)

	var seen *Claims
	ok := func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		seen, _ = ClaimsFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}
	call := func(h httprouter.Handle) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+adminToken)
		rec := httptest.NewRecorder()
		h(rec, req, nil)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, call(guard.RequireAdmin(ok)))

	roles["a1"] = model.RoleUser
	assert.Equal(t, http.StatusForbidden, call(guard.RequireAdmin(ok)))
	assert.Equal(t, http.StatusNoContent, call(guard.Require(ok)))
	require.NotNil(t, seen)
	assert.False(t, seen.IsAdmin())

	delete(roles, "a1")
	assert.Equal(t, http.StatusUnauthorized, call(guard.Require(ok)))
}
