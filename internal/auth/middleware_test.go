package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedHandler(t *testing.T, called *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true

		userID, ok := GetUserIDFromContext(r.Context())
		require.True(t, ok)
		claims, ok := GetClaimsFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, userID.String(), claims.UserID)

		w.WriteHeader(http.StatusNoContent)
	})
}

func serveWithAuth(m *Middleware, h http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/reviews", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	m.RequireAuth(h).ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	tokens, err := NewJWTService([]byte("secret"), time.Hour)
	require.NoError(t, err)
	expiredTokens, err := NewJWTService([]byte("secret"), -time.Minute)
	require.NoError(t, err)
	otherKey, err := NewJWTService([]byte("other"), time.Hour)
	require.NoError(t, err)

	valid, err := tokens.CreateToken(uuid.New(), "alice")
	require.NoError(t, err)
	expired, err := expiredTokens.CreateToken(uuid.New(), "alice")
	require.NoError(t, err)
	forged, err := otherKey.CreateToken(uuid.New(), "alice")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCalled bool
	}{
		{"missing header", "", http.StatusUnauthorized, false},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, false},
		{"bearer without token", "Bearer ", http.StatusUnauthorized, false},
		{"expired token", "Bearer " + expired, http.StatusForbidden, false},
		{"forged token", "Bearer " + forged, http.StatusForbidden, false},
		{"garbage token", "Bearer garbage", http.StatusForbidden, false},
		{"valid token", "Bearer " + valid, http.StatusNoContent, true},
		{"lowercase scheme", "bearer " + valid, http.StatusNoContent, true},
	}

	m := NewMiddleware(tokens)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			rec := serveWithAuth(m, protectedHandler(t, &called), tt.header)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCalled, called)
		})
	}
}

func TestRequireAuth_NonUUIDSubject(t *testing.T) {
	// the claim set is trusted, but a non-uuid id cannot identify an owner
	stub := &stubTokenService{claims: &TokenClaims{UserID: "42", Username: "alice"}}
	called := false
	rec := serveWithAuth(NewMiddleware(stub), protectedHandler(t, &called), "Bearer whatever")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}

type stubTokenService struct {
	claims *TokenClaims
}

func (s *stubTokenService) CreateToken(uuid.UUID, string) (string, error) { return "stub", nil }

func (s *stubTokenService) VerifyToken(string) (*TokenClaims, error) { return s.claims, nil }
