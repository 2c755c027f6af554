package jwt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken(t *testing.T) {
	t.Parallel()

	svc := NewJWTService("test-secret", "15m", "168h")

	personID := "person-1"
	token, expiresAt, err := svc.GenerateAccessToken(AccessClaims{
		UserID:      "user-1",
		PersonID:    &personID,
		Role:        "employee",
		Department:  "Human Resources",
		Designation: "HR Officer",
		IsAdmin:     false,
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Positive(t, expiresAt)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "person-1", claims["person_id"])
	assert.Equal(t, "Human Resources", claims["department"])
	assert.Equal(t, "access", claims["type"])
}

func TestGenerateRefreshToken(t *testing.T) {
	t.Parallel()

	svc := NewJWTService("test-secret", "15m", "168h")

	token, expiresAt, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "refresh", claims["type"])

	cookie := svc.RefreshTokenCookie(token, expiresAt)
	assert.Equal(t, "refresh_token", cookie.Name)
	assert.True(t, cookie.HttpOnly)
}

func TestGenerateAccessToken_BadExpiration(t *testing.T) {
	t.Parallel()

	svc := NewJWTService("test-secret", "not-a-duration", "168h")

	_, _, err := svc.GenerateAccessToken(AccessClaims{UserID: "user-1"})
	assert.Error(t, err)
}
