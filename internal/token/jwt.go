package token

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTVerifier validates HS256-signed tokens locally against a shared secret
// and reads the granted roles from the realm_access claim. It is the
// development-mode stand-in for a real introspection endpoint.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a verifier for tokens signed with the given secret.
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Authorize parses and verifies the token signature, then checks the realm
// roles against requiredRoles.
func (v *JWTVerifier) Authorize(_ context.Context, rawToken string, requiredRoles []string) (bool, error) {
	if rawToken == "" {
		return false, nil
	}

	var c claims
	tok, err := jwt.ParseWithClaims(rawToken, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	})
	if err != nil || !tok.Valid {
		return false, nil
	}

	return hasAnyRole(c.RealmAccess.Roles, requiredRoles), nil
}

// UserID derives the caller identity from the sub claim.
func (v *JWTVerifier) UserID(rawToken string) (uuid.UUID, error) {
	return subjectUUID(rawToken)
}

var _ Verifier = (*JWTVerifier)(nil)
