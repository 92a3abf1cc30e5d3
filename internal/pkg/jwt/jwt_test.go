//go:build unit

package jwt_test

import (
	"testing"
	"time"

	"houseboat-booking/internal/domain/user"
	"houseboat-booking/internal/pkg/jwt"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService(t *testing.T) {
	opts := jwt.Options{Issuer: "identity.test", TTL: time.Hour}
	svc := jwt.NewService("secret", opts)
	id := uuid.New()

	t.Run("round trip", func(t *testing.T) {
		token, err := svc.Issue(id, user.RoleStaff)
		require.NoError(t, err)

		claims, err := svc.Verify(token)
		require.NoError(t, err)
		got, err := claims.UserID()
		require.NoError(t, err)
		assert.Equal(t, id, got)
		assert.Equal(t, "staff", claims.Role)
	})

	t.Run("legacy user_id claim wins over sub", func(t *testing.T) {
		legacy := uuid.New()
		token := sign(t, "secret", jwt.Claims{
			LegacyUserID: legacy.String(),
			Role:         "customer",
			RegisteredClaims: gojwt.RegisteredClaims{
				Subject:   "not-a-uuid",
				Issuer:    "identity.test",
				ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})

		claims, err := svc.Verify(token)
		require.NoError(t, err)
		got, err := claims.UserID()
		require.NoError(t, err)
		assert.Equal(t, legacy, got)
	})

	t.Run("missing user id", func(t *testing.T) {
		token := sign(t, "secret", jwt.Claims{
			Role: "customer",
			RegisteredClaims: gojwt.RegisteredClaims{
				Issuer:    "identity.test",
				ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})

		claims, err := svc.Verify(token)
		require.NoError(t, err)
		_, err = claims.UserID()
		assert.ErrorIs(t, err, jwt.ErrMissingUser)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := jwt.NewService("other", opts).Issue(id, user.RoleCustomer)
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token, err := jwt.NewService("secret", jwt.Options{Issuer: "elsewhere", TTL: time.Hour}).Issue(id, user.RoleCustomer)
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := jwt.NewService("secret", jwt.Options{Issuer: "identity.test", TTL: -time.Minute}).Issue(id, user.RoleCustomer)
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, jwt.ErrExpiredToken)
	})

	t.Run("expiry within leeway", func(t *testing.T) {
		lenient := jwt.NewService("secret", jwt.Options{Issuer: "identity.test", Leeway: time.Minute})
		token, err := jwt.NewService("secret", jwt.Options{Issuer: "identity.test", TTL: -10 * time.Second}).Issue(id, user.RoleCustomer)
		require.NoError(t, err)

		_, err = lenient.Verify(token)
		assert.NoError(t, err)
	})

	t.Run("other signing method", func(t *testing.T) {
		claims := jwt.Claims{RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   id.String(),
			Issuer:    "identity.test",
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Verify("not.a.token")
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})
}

func sign(t *testing.T, secret string, claims jwt.Claims) string {
	t.Helper()
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}
