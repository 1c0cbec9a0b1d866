package jwt

import (
	"testing"

	"beamchat/backend/internal/config"

	"github.com/stretchr/testify/require"
)

func TestTokenRoundtrip(t *testing.T) {
	req := require.New(t)
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}

	token, err := GenerateToken(42)
	req.NoError(err)
	req.NotEmpty(token)

	userID, err := ParseUserID(token)
	req.NoError(err)
	req.Equal(uint(42), userID)
}

func TestParseUserID_RejectsGarbage(t *testing.T) {
	req := require.New(t)
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}

	_, err := ParseUserID("not.a.token")
	req.Error(err)
}

func TestParseUserID_RejectsWrongSecret(t *testing.T) {
	req := require.New(t)
	config.AppConfig = &config.Config{JWTSecret: "secret-a"}
	token, err := GenerateToken(7)
	req.NoError(err)

	config.AppConfig = &config.Config{JWTSecret: "secret-b"}
	_, err = ParseUserID(token)
	req.Error(err)
}
