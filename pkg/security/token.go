package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired means the signature checked out but the token is past
	// its expiry
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers everything else: bad signature, malformed
	// token, wrong signing method or a missing subject claim
	ErrTokenInvalid = errors.New("token invalid")
)

// TokenCodec issues and validates signed tokens that carry an email as the
// subject claim. Expiry is the only invalidation mechanism, there is no
// revocation list.
type TokenCodec struct {
	secret []byte
	method jwt.SigningMethod
}

// NewTokenCodec returns a codec signing with the given HMAC algorithm
// (HS256, HS384 or HS512). Unknown algorithms fall back to HS256.
func NewTokenCodec(secret, algorithm string) *TokenCodec {
	var m jwt.SigningMethod

	switch algorithm {
	case "HS384":
		m = jwt.SigningMethodHS384
	case "HS512":
		m = jwt.SigningMethodHS512
	default:
		m = jwt.SigningMethodHS256
	}

	return &TokenCodec{
		secret: []byte(secret),
		method: m,
	}
}

// Issue signs a token with subject s that expires after ttl
func (t *TokenCodec) Issue(s string, ttl time.Duration) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(t.method, jwt.RegisteredClaims{
		Subject:   s,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})

	return token.SignedString(t.secret)
}

// Subject verifies the signature and expiry of a token and returns its
// subject claim
func (t *TokenCodec) Subject(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(tokenStr, claims, func(tk *jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{t.method.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}

		return "", ErrTokenInvalid
	}

	if claims.Subject == "" {
		return "", ErrTokenInvalid
	}

	return claims.Subject, nil
}
