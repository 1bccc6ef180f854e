package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	manager := NewManager("test-secret", 15*time.Minute)
	userID := uuid.New()

	token, err := manager.GenerateAccessToken(userID, "Fay")
	require.NoError(t, err)

	claims, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)
	require.Equal(t, userID, claims.UserID)
	require.Equal(t, "Fay", claims.Name)
	require.Equal(t, userID.String(), claims.Subject)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	token, err := NewManager("test-secret", 15*time.Minute).
		GenerateAccessToken(uuid.New(), "Fay")
	require.NoError(t, err)

	_, err = NewManager("other-secret", 15*time.Minute).ValidateAccessToken(token)
	require.Error(t, err)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	manager := NewManager("test-secret", -time.Minute)

	token, err := manager.GenerateAccessToken(uuid.New(), "Fay")
	require.NoError(t, err)

	_, err = manager.ValidateAccessToken(token)
	require.ErrorIs(t, err, gojwt.ErrTokenExpired)
}
