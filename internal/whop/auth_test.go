package whop

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/domain"
)

const testSecret = "test-app-secret"

func signUserToken(t *testing.T, secret, sub string, owner bool) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   sub,
		"owner": owner,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestVerifyUserToken_Valid(t *testing.T) {
	identity := NewIdentity(testSecret)

	caller, err := identity.VerifyUserToken(signUserToken(t, testSecret, "user_123", true))
	require.NoError(t, err)
	assert.Equal(t, "user_123", caller.UserID)
	assert.True(t, caller.Owner)
}

func TestVerifyUserToken_WrongSecret(t *testing.T) {
	identity := NewIdentity(testSecret)

	_, err := identity.VerifyUserToken(signUserToken(t, "other-secret", "user_123", false))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthenticated))
}

func TestVerifyUserToken_Expired(t *testing.T) {
	identity := NewIdentity(testSecret)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user_123",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = identity.VerifyUserToken(signed)
	assert.True(t, errors.Is(err, domain.ErrUnauthenticated))
}

func TestVerifyUserToken_Missing(t *testing.T) {
	identity := NewIdentity(testSecret)

	_, err := identity.VerifyUserToken("")
	assert.True(t, errors.Is(err, domain.ErrUnauthenticated))
}

func TestDeploymentID(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"did": "dep_abc"})
	// The platform signs this token with its own key; only the payload is read.
	signed, err := token.SignedString([]byte("platform-key"))
	require.NoError(t, err)

	did, err := DeploymentID(signed)
	require.NoError(t, err)
	assert.Equal(t, "dep_abc", did)
}

func TestDeploymentID_MissingClaim(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"other": "x"})
	signed, err := token.SignedString([]byte("platform-key"))
	require.NoError(t, err)

	_, err = DeploymentID(signed)
	assert.True(t, errors.Is(err, domain.ErrUnauthenticated))
}

func TestDeploymentID_Garbage(t *testing.T) {
	_, err := DeploymentID("not-a-token")
	assert.True(t, errors.Is(err, domain.ErrUnauthenticated))
}
