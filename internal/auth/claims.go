package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrMissingRider = errors.New("rider id required")

// Claims identifies a competition rider. Tokens are issued by the club's
// login service and only verified here.
type Claims struct {
	RiderID string `json:"rider_id"`
	Name    string `json:"name"`
	jwt.RegisteredClaims
}

// SignToken issues an HS256 rider token.
func SignToken(secret, riderID, name string, ttl time.Duration) (string, error) {
	if riderID == "" {
		return "", ErrMissingRider
	}
	now := time.Now()
	claims := Claims{
		RiderID: riderID,
		Name:    name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   riderID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
