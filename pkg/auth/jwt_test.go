package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etuition/etuition-api/pkg/auth"
)

func TestIssueAndVerify(t *testing.T) {
	svc := auth.NewTokenService("secret")

	token, err := svc.Issue(auth.Identity{Email: "a@x.com", Name: "Ayesha"})
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "Ayesha", claims.Name)
	assert.WithinDuration(t, time.Now().Add(auth.TokenTTL), claims.ExpiresAt.Time, time.Minute)
}

func TestIssueRequiresEmail(t *testing.T) {
	_, err := auth.NewTokenService("secret").Issue(auth.Identity{Email: "  "})
	assert.ErrorIs(t, err, auth.ErrMissingEmail)
}

func TestVerifyRejectsExpired(t *testing.T) {
	past := time.Now().Add(-31 * 24 * time.Hour)
	issuer := auth.NewTokenService("secret", auth.WithClock(func() time.Time { return past }))
	token, err := issuer.Issue(auth.Identity{Email: "a@x.com"})
	require.NoError(t, err)

	_, err = auth.NewTokenService("secret").Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifyAcceptsWithinWindow(t *testing.T) {
	almost := time.Now().Add(-29 * 24 * time.Hour)
	issuer := auth.NewTokenService("secret", auth.WithClock(func() time.Time { return almost }))
	token, err := issuer.Issue(auth.Identity{Email: "a@x.com"})
	require.NoError(t, err)

	claims, err := auth.NewTokenService("secret").Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := auth.NewTokenService("one").Issue(auth.Identity{Email: "a@x.com"})
	require.NoError(t, err)

	_, err = auth.NewTokenService("two").Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	claims := auth.Claims{
		Email: "a@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = auth.NewTokenService("secret").Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifyRejectsMissingExpiry(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{Email: "a@x.com"}).
		SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = auth.NewTokenService("secret").Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := auth.NewTokenService("secret").Verify("not.a.jwt")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestEmailContext(t *testing.T) {
	_, ok := auth.EmailFromCtx(context.Background())
	assert.False(t, ok)

	email, ok := auth.EmailFromCtx(auth.WithEmail(context.Background(), "a@x.com"))
	assert.True(t, ok)
	assert.Equal(t, "a@x.com", email)
}
