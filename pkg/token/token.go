package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotJWT is returned when the token does not parse as a JWT.
var ErrNotJWT = errors.New("token is not a JWT")

// The session core never verifies signatures: tokens are issued and verified
// server-side. Claims are only inspected to decide whether a locally persisted
// session is worth restoring.
var parser = jwt.NewParser()

// ExpiresAt extracts the expiration time from a JWT without verifying its
// signature. Returns ErrNotJWT for opaque tokens and a zero time when the
// token carries no exp claim.
func ExpiresAt(raw string) (time.Time, error) {
	tok, _, err := parser.ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, errors.Join(ErrNotJWT, err)
	}

	exp, err := tok.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, nil
	}

	return exp.Time, nil
}

// Usable reports whether a persisted token is still worth attaching to
// requests: it must be non-empty and, when it is a JWT with an exp claim,
// not yet expired. Opaque tokens are accepted as-is.
func Usable(raw string) bool {
	if raw == "" {
		return false
	}

	exp, err := ExpiresAt(raw)
	if err != nil {
		// Opaque token: freshness is unknowable client-side.
		return true
	}
	if exp.IsZero() {
		return true
	}

	return time.Now().Before(exp)
}
