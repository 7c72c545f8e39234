package services_test

import (
	"testing"
	"time"

	"socialnet/internal/models"
	"socialnet/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
)

func TestTokenService_IssueAndVerify(t *testing.T) {
	tokens := services.NewTokenService("test_jwt_secret")

	token, err := tokens.Issue("user-123", "user@example.com")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := tokens.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
}

func TestTokenService_Verify_WrongSecret(t *testing.T) {
	token, err := services.NewTokenService("secret_a").Issue("user-123", "user@example.com")
	assert.NoError(t, err)

	_, err = services.NewTokenService("secret_b").Verify(token)
	assert.Error(t, err)
	assert.True(t, models.IsAuth(err))
}

func TestTokenService_Verify_Malformed(t *testing.T) {
	tokens := services.NewTokenService("test_jwt_secret")

	for _, bad := range []string{"", "garbage", "a.b.c"} {
		_, err := tokens.Verify(bad)
		assert.Error(t, err)
		assert.True(t, models.IsAuth(err))
	}
}

func TestTokenService_Verify_Expired(t *testing.T) {
	tokens := services.NewTokenService("test_jwt_secret")

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "user-123",
		"email": "user@example.com",
		"iat":   time.Now().Add(-48 * time.Hour).Unix(),
		"exp":   time.Now().Add(-time.Hour).Unix(),
	})
	tokenString, err := expired.SignedString([]byte("test_jwt_secret"))
	assert.NoError(t, err)

	_, err = tokens.Verify(tokenString)
	assert.Error(t, err)
	assert.True(t, models.IsAuth(err))
}

func TestTokenService_Verify_UnexpectedSigningMethod(t *testing.T) {
	tokens := services.NewTokenService("test_jwt_secret")

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":   "user-123",
		"email": "user@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	tokenString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	_, err = tokens.Verify(tokenString)
	assert.Error(t, err)
	assert.True(t, models.IsAuth(err))
}
