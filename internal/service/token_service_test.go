package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/learning-progress-api/internal/models"
	appErrors "github.com/noah-isme/learning-progress-api/pkg/errors"
)

func signClaims(t *testing.T, method jwt.SigningMethod, key interface{}, claims models.JWTClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestValidateTokenAcceptsSignedClaims(t *testing.T) {
	svc := NewTokenService("secret", "auth")
	token := signClaims(t, jwt.SigningMethodHS256, []byte("secret"), models.JWTClaims{
		UserID: "u1",
		Role:   models.RoleTeacher,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "auth",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleTeacher, claims.Role)
}

func TestValidateTokenRejectsInvalidTokens(t *testing.T) {
	svc := NewTokenService("secret", "auth")
	valid := jwt.RegisteredClaims{Issuer: "auth", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}

	tests := map[string]string{
		"wrong secret": signClaims(t, jwt.SigningMethodHS256, []byte("other"), models.JWTClaims{UserID: "u1", RegisteredClaims: valid}),
		"expired": signClaims(t, jwt.SigningMethodHS256, []byte("secret"), models.JWTClaims{UserID: "u1", RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "auth",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		}}),
		"wrong issuer": signClaims(t, jwt.SigningMethodHS256, []byte("secret"), models.JWTClaims{UserID: "u1", RegisteredClaims: jwt.RegisteredClaims{
			Issuer: "someone-else",
		}}),
		"no subject": signClaims(t, jwt.SigningMethodHS256, []byte("secret"), models.JWTClaims{RegisteredClaims: valid}),
		"garbage":    "not-a-token",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
		})
	}
}
