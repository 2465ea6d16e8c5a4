package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// CredentialClaims is the subset of claims the portal backend mints
// into the credential token. The client never verifies the signature;
// verification is the server's job, the claims are read only to avoid
// a doomed network round trip on an expired credential.
type CredentialClaims struct {
	jwt.RegisteredClaims
	UID      string `json:"uid,omitempty"`
	UserRole string `json:"role,omitempty"`
}

// UserID returns the uid claim, falling back to the subject.
func (c *CredentialClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject
}

// ExpiredAt reports whether the token's expiry is past the given
// instant. Tokens without an exp claim never count as expired.
func (c *CredentialClaims) ExpiredAt(at time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return c.ExpiresAt.Time.Before(at)
}

// ParseCredential decodes a stored credential token without verifying
// its signature.
func ParseCredential(token string) (*CredentialClaims, error) {
	claims := &CredentialClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryAuth, "unable to decode stored credential").
			WithCode(goerrors.CodeUnauthorized)
	}
	return claims, nil
}
