package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("unit-test-secret")

func protectedHandler(t *testing.T, wantUserID int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		require.True(t, ok, "user id missing from context")
		assert.Equal(t, wantUserID, userID)
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthenticateValidToken(t *testing.T) {
	token, err := GenerateToken(testSecret, 42)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/leagues", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	Authenticate(testSecret)(protectedHandler(t, 42)).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAuthenticateMissingHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/leagues", nil)
	rec := httptest.NewRecorder()

	Authenticate(testSecret)(protectedHandler(t, 0)).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateMalformedHeader(t *testing.T) {
	token, err := GenerateToken(testSecret, 42)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/leagues", nil)
	req.Header.Set("Authorization", "Token "+token)
	rec := httptest.NewRecorder()

	Authenticate(testSecret)(protectedHandler(t, 0)).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateWrongSecret(t *testing.T) {
	token, err := GenerateToken([]byte("someone-else"), 42)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/leagues", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	Authenticate(testSecret)(protectedHandler(t, 0)).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateGarbageToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/leagues", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	rec := httptest.NewRecorder()

	Authenticate(testSecret)(protectedHandler(t, 0)).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserIDFromContextAbsent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/leagues", nil)
	_, ok := UserIDFromContext(req.Context())
	assert.False(t, ok)
}
