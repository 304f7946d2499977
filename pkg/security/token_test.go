package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundtrip(t *testing.T) {
	codec := NewTokenCodec("test-secret", "HS256")

	token, err := codec.Issue("a@x.com", time.Minute)
	require.NoError(t, err)

	subject, err := codec.Subject(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", subject)
}

func TestTokenAlgorithms(t *testing.T) {
	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		codec := NewTokenCodec("test-secret", alg)

		token, err := codec.Issue("a@x.com", time.Minute)
		require.NoError(t, err, alg)

		subject, err := codec.Subject(token)
		require.NoError(t, err, alg)
		assert.Equal(t, "a@x.com", subject, alg)
	}
}

func TestTokenExpired(t *testing.T) {
	codec := NewTokenCodec("test-secret", "HS256")

	token, err := codec.Issue("a@x.com", -time.Minute)
	require.NoError(t, err)

	_, err = codec.Subject(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenCodec("secret-one", "HS256")
	verifier := NewTokenCodec("secret-two", "HS256")

	token, err := issuer.Issue("a@x.com", time.Minute)
	require.NoError(t, err)

	_, err = verifier.Subject(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenWrongAlgorithm(t *testing.T) {
	issuer := NewTokenCodec("test-secret", "HS512")
	verifier := NewTokenCodec("test-secret", "HS256")

	token, err := issuer.Issue("a@x.com", time.Minute)
	require.NoError(t, err)

	_, err = verifier.Subject(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenMalformed(t *testing.T) {
	codec := NewTokenCodec("test-secret", "HS256")

	_, err := codec.Subject("definitely.not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenEmptySubject(t *testing.T) {
	// A correctly signed token without a subject claim must be rejected
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	})
	signed, err := raw.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	codec := NewTokenCodec("test-secret", "HS256")
	_, err = codec.Subject(signed)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
