package whop

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"jobboard/internal/domain"
)

// Caller is the verified identity of the platform user making a request.
type Caller struct {
	UserID string
	Owner  bool
}

// Identity verifies platform-issued user tokens. The token is an HS256 JWT
// signed with the app secret; sub carries the platform user id and the owner
// claim marks community owners, the only role allowed to post jobs.
type Identity struct {
	secret []byte
}

// NewIdentity creates a verifier for the given app secret.
func NewIdentity(appSecret string) *Identity {
	return &Identity{secret: []byte(appSecret)}
}

type userClaims struct {
	Owner bool `json:"owner"`
	jwt.RegisteredClaims
}

// VerifyUserToken validates the user token and returns the caller identity.
// Any failure is reported as domain.ErrUnauthenticated.
func (i *Identity) VerifyUserToken(token string) (*Caller, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: missing user token", domain.ErrUnauthenticated)
	}

	claims := &userClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: invalid user token", domain.ErrUnauthenticated)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", domain.ErrUnauthenticated)
	}

	return &Caller{UserID: claims.Subject, Owner: claims.Owner}, nil
}

// DeploymentID extracts the tenant (app deployment) id from the platform's
// app-config token. The token is minted by the platform with a key the app
// never holds, so only the payload is read; the did claim is the single
// reliable installation identifier.
func DeploymentID(appConfigToken string) (string, error) {
	appConfigToken = strings.TrimSpace(appConfigToken)
	if appConfigToken == "" {
		return "", fmt.Errorf("%w: missing app config token", domain.ErrUnauthenticated)
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(appConfigToken, claims); err != nil {
		return "", fmt.Errorf("%w: malformed app config token", domain.ErrUnauthenticated)
	}

	did, _ := claims["did"].(string)
	if did == "" {
		return "", fmt.Errorf("%w: app config token has no deployment id", domain.ErrUnauthenticated)
	}
	return did, nil
}
