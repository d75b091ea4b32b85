package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aditi-rao/supplylens-api/config"
	"github.com/aditi-rao/supplylens-api/models"
)

// sessionTokenTTL bounds how long a login remains valid.
const sessionTokenTTL = 24 * time.Hour

// IssueSessionToken signs an HS256 session token for a successfully
// authenticated user. The subject is the user's email and the role claim
// carries the role stored on the users row; clients never assert roles
// themselves.
func IssueSessionToken(cfg *config.Config, user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":  cfg.TokenIssuer,
		"aud":  cfg.TokenAudience,
		"sub":  user.Email,
		"iat":  now.Unix(),
		"exp":  now.Add(sessionTokenTTL).Unix(),
		"role": user.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}
