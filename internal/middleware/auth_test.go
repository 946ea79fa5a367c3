package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booking-api/internal/model"
)

type stubVerifier map[string]*model.AuthClaims

func (s stubVerifier) Verify(raw string) (*model.AuthClaims, error) {
	claims, ok := s[raw]
	if !ok {
		return nil, model.ErrInvalidToken
	}
	return claims, nil
}

func TestAuthorize(t *testing.T) {
	admins := NewRoleSet(model.RoleAdmin)

	assert.ErrorIs(t, Authorize(nil, admins), model.ErrForbidden)
	assert.ErrorIs(t, Authorize(&model.AuthClaims{UserID: "u-1"}, admins), model.ErrForbidden)
	assert.ErrorIs(t, Authorize(&model.AuthClaims{UserID: "u-1", Role: model.RoleUser}, admins), model.ErrForbidden)
	assert.NoError(t, Authorize(&model.AuthClaims{UserID: "u-1", Role: model.RoleAdmin}, admins))
	assert.ErrorIs(t, Authorize(&model.AuthClaims{Role: model.RoleAdmin}, NewRoleSet()), model.ErrForbidden)
}

func TestRequireAuth(t *testing.T) {
	auth := NewAuthMiddleware(stubVerifier{"good": {UserID: "u-1", Username: "ana", Role: model.RoleUser}})

	var seen *model.AuthClaims
	handler := auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rejected := []string{"", "good", "Bearer", "Bearer ", "bearer good", "Bearer  good", "Bearer good extra", "Basic good", "Bearer bad"}
	for _, header := range rejected {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		assert.Contains(t, rec.Body.String(), "AUTHENTICATION_REQUIRED")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "u-1", seen.UserID)
}

func TestRequireRoles(t *testing.T) {
	handler := RequireRoles(model.RoleAdmin)(okHandler())

	t.Run("no claims is forbidden", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("wrong role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithClaims(req.Context(), &model.AuthClaims{UserID: "u-1", Role: model.RoleUser}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "FORBIDDEN")
	})

	t.Run("matching role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithClaims(req.Context(), &model.AuthClaims{UserID: "u-1", Role: model.RoleAdmin}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
