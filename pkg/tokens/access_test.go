package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func claimsFor(sub string, exp time.Time) AccessClaims {
	return AccessClaims{
		Role: "artist",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
}

func TestAccessClaimsFromToken(t *testing.T) {
	t.Parallel()

	valid, err := SignAccess(claimsFor("42", time.Now().Add(time.Hour)), secret)
	require.NoError(t, err)
	expired, err := SignAccess(claimsFor("42", time.Now().Add(-time.Hour)), secret)
	require.NoError(t, err)
	noSubject, err := SignAccess(claimsFor("", time.Now().Add(time.Hour)), secret)
	require.NoError(t, err)
	other, err := SignAccess(claimsFor("42", time.Now().Add(time.Hour)), []byte("other"))
	require.NoError(t, err)
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claimsFor("42", time.Now().Add(time.Hour))).SignedString(secret)
	require.NoError(t, err)

	c, err := AccessClaimsFromToken(valid, secret)
	require.NoError(t, err)
	assert.Equal(t, "42", c.Subject)
	assert.Equal(t, "artist", c.Role)

	_, err = AccessClaimsFromToken(expired, secret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	for name, tok := range map[string]string{
		"no subject":   noSubject,
		"wrong secret": other,
		"wrong alg":    hs512,
		"garbage":      "not-a-token",
	} {
		_, err := AccessClaimsFromToken(tok, secret)
		assert.Error(t, err, name)
	}
}
