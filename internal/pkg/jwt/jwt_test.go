package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret-key-for-jwt", "1h")

	token, expiresAt, err := svc.GenerateAccessToken("emp@example.com", RoleHR)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotZero(t, expiresAt)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "emp@example.com", claims[ClaimEmployeeID])
	assert.Equal(t, "hr", claims[ClaimRole])
	assert.Equal(t, TokenTypeAccess, claims[ClaimType])
}

func TestGenerateAccessToken_InvalidExpiration(t *testing.T) {
	svc := NewJWTService("test-secret-key-for-jwt", "soon")

	_, _, err := svc.GenerateAccessToken("emp@example.com", RoleEmployee)
	assert.Error(t, err)
}

func TestSSEToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret-key-for-jwt", "1h")

	token, expiresIn, err := svc.GenerateSSEToken("hr@example.com", RoleHR)
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	employeeID, role, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, "hr@example.com", employeeID)
	assert.Equal(t, RoleHR, role)
}

func TestValidateSSEToken_RejectsAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret-key-for-jwt", "1h")

	token, _, err := svc.GenerateAccessToken("hr@example.com", RoleHR)
	require.NoError(t, err)

	_, _, err = svc.ValidateSSEToken(token)
	assert.Error(t, err)
}

func TestValidateSSEToken_RejectsForeignSignature(t *testing.T) {
	issuer := NewJWTService("one-secret", "1h")
	verifier := NewJWTService("another-secret", "1h")

	token, _, err := issuer.GenerateSSEToken("hr@example.com", RoleHR)
	require.NoError(t, err)

	_, _, err = verifier.ValidateSSEToken(token)
	assert.Error(t, err)
}

func TestValidateSSEToken_RejectsExpired(t *testing.T) {
	svc := NewJWTService("test-secret-key-for-jwt", "1h")

	_, token, err := svc.JWTAuth().Encode(map[string]interface{}{
		ClaimEmployeeID: "hr@example.com",
		ClaimRole:       string(RoleHR),
		ClaimType:       TokenTypeSSE,
		"exp":           time.Now().Add(-time.Hour).Unix(),
	})
	require.NoError(t, err)

	_, _, err = svc.ValidateSSEToken(token)
	assert.Error(t, err)
}
