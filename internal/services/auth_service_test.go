package services_test

import (
	"testing"
	"time"

	"inkpress/internal/authz"
	"inkpress/internal/services"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_PasswordHashing(t *testing.T) {
	svc := services.NewAuthService("test-secret")

	hash, err := svc.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, svc.CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, svc.CheckPassword(hash, "wrong"))
	assert.False(t, svc.CheckPassword("not-a-bcrypt-hash", "anything"))
}

func TestAuthService_SessionRoundTrip(t *testing.T) {
	svc := services.NewAuthService("test-secret")

	token, err := svc.SignSession(42, authz.RoleAdmin)
	require.NoError(t, err)

	claims, err := svc.ParseSession(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, authz.RoleAdmin, claims.Role)

	remaining := time.Until(claims.ExpiresAt.Time)
	assert.Greater(t, remaining, services.SessionTTL-time.Minute)
	assert.LessOrEqual(t, remaining, services.SessionTTL)
}

func TestAuthService_ParseSession_RejectsOtherSecret(t *testing.T) {
	issuer := services.NewAuthService("secret-a")
	verifier := services.NewAuthService("secret-b")

	token, err := issuer.SignSession(1, authz.RoleUser)
	require.NoError(t, err)

	_, err = verifier.ParseSession(token)
	assert.Error(t, err)
}

func TestAuthService_ParseSession_RejectsGarbage(t *testing.T) {
	svc := services.NewAuthService("test-secret")

	for _, bad := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.ParseSession(bad)
		assert.Error(t, err, "token %q", bad)
	}
}

func TestAuthService_ParseSession_RejectsUnsignedAlg(t *testing.T) {
	svc := services.NewAuthService("test-secret")

	// alg=none must never be accepted even with the right claim shape
	claims := &services.SessionClaims{
		UserID: 1,
		Role:   authz.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ParseSession(signed)
	assert.Error(t, err)
}

func TestAuthService_EmailTokenRoundTrip(t *testing.T) {
	svc := services.NewAuthService("test-secret")

	token, err := svc.SignEmailToken(7)
	require.NoError(t, err)

	id, err := svc.ParseEmailToken(token)
	require.NoError(t, err)
	assert.Equal(t, 7, id)
}

func TestAuthService_ParseEmailToken_RejectsExpired(t *testing.T) {
	svc := services.NewAuthService("test-secret")

	claims := jwt.RegisteredClaims{
		Subject:   "7",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.ParseEmailToken(expired)
	assert.Error(t, err)
}
