package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cursus-lms/cursus-be/internal/models"
)

const testSecret = "cursus_test_jwt_secret_key_1234567890"

func testUser() models.User {
	return models.User{ID: "user-1", Username: "demo", Email: "demo@example.com"}
}

func TestGenerateValidateRoundTrip(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour, NewMemoryDenylist())

	token, err := m.Generate(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Validate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "demo", claims.Username)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateRejectsExpired(t *testing.T) {
	m := NewTokenManager(testSecret, -time.Minute, NewMemoryDenylist())

	token, err := m.Generate(testUser())
	require.NoError(t, err)

	_, err = m.Validate(context.Background(), token)
	assert.Error(t, err)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager(testSecret, time.Hour, NewMemoryDenylist())
	verifier := NewTokenManager("a-different-secret-entirely", time.Hour, NewMemoryDenylist())

	token, err := issuer.Generate(testUser())
	require.NoError(t, err)

	_, err = verifier.Validate(context.Background(), token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour, NewMemoryDenylist())
	_, err := m.Validate(context.Background(), "not.a.token")
	assert.Error(t, err)
}

func TestRevokedTokenRejected(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour, NewMemoryDenylist())

	token, err := m.Generate(testUser())
	require.NoError(t, err)

	claims, err := m.Validate(context.Background(), token)
	require.NoError(t, err)

	require.NoError(t, m.Revoke(context.Background(), claims))

	_, err = m.Validate(context.Background(), token)
	assert.Error(t, err)
}

func TestMemoryDenylistExpiry(t *testing.T) {
	d := NewMemoryDenylist()

	require.NoError(t, d.Revoke(context.Background(), "jti-1", 50*time.Millisecond))

	revoked, err := d.IsRevoked(context.Background(), "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	time.Sleep(60 * time.Millisecond)

	revoked, err = d.IsRevoked(context.Background(), "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked, "entry past its TTL must no longer count as revoked")
}

func TestMiddleware(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour, NewMemoryDenylist())

	var gotClaims *Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	protected := m.Middleware()(next)

	// Missing token
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Bearer header
	token, err := m.Generate(testUser())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotClaims)
	assert.Equal(t, "user-1", gotClaims.UserID)

	// Cookie fallback
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
