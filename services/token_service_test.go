package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/aditi-rao/supplylens-api/config"
	"github.com/aditi-rao/supplylens-api/models"
)

func tokenTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:     "test-secret-key",
		TokenIssuer:   "supplylens-api",
		TokenAudience: "supplylens-dashboard",
	}
}

func TestIssueSessionToken(t *testing.T) {
	cfg := tokenTestConfig()
	user := &models.User{Email: "analyst@example.com", Role: models.RoleAnalyst}

	signed, err := IssueSessionToken(cfg, user)
	assert.NoError(t, err)
	assert.NotEmpty(t, signed)

	parsed, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	assert.NoError(t, err)
	assert.True(t, parsed.Valid)

	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "analyst@example.com", claims["sub"])
	assert.Equal(t, models.RoleAnalyst, claims["role"])
	assert.Equal(t, cfg.TokenIssuer, claims["iss"])
	assert.Equal(t, cfg.TokenAudience, claims["aud"])

	exp, err := claims.GetExpirationTime()
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(sessionTokenTTL), exp.Time, time.Minute)
}

func TestIssueSessionToken_WrongSecretFailsVerification(t *testing.T) {
	signed, err := IssueSessionToken(tokenTestConfig(), &models.User{Email: "a@b.com", Role: models.RoleAdmin})
	assert.NoError(t, err)

	_, err = jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte("a-different-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	assert.Error(t, err)
}
