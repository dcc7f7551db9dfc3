package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// timeNow is a test seam for expiration checks.
var timeNow = time.Now

// ValidateToken reports whether token can still back a session.
//
// The check is purely local: the claims segment is parsed without verifying
// the signature (the server remains the authority; this only avoids sending
// requests that are guaranteed to bounce). A token is invalid when it cannot
// be parsed at all or when its numeric exp claim is in the past. A missing
// exp claim is accepted.
func ValidateToken(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return false
	}
	if exp == nil {
		return true
	}
	return timeNow().Unix() < exp.Unix()
}
