package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "qr-menu-builder"

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingOwner = errors.New("token has no owner subject")
)

// OwnerClaims are issued by the external auth provider. The subject carries
// the owning account id; the business is looked up from it on every request.
type OwnerClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// GenerateOwnerToken signs a token for ownerID. Production tokens come from
// the auth provider; this exists for the `token` command and tests.
func GenerateOwnerToken(secret []byte, ownerID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &OwnerClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ownerID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func ParseOwnerToken(secret []byte, tokenString string) (*OwnerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &OwnerClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*OwnerClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrMissingOwner
	}
	return claims, nil
}
