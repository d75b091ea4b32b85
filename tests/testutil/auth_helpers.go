package testutil

import (
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"

	"github.com/aditi-rao/supplylens-api/config"
	"github.com/aditi-rao/supplylens-api/middleware"
	"github.com/aditi-rao/supplylens-api/models"
	"github.com/aditi-rao/supplylens-api/services"
)

// MockValidatedClaims creates a mock ValidatedClaims for testing
func MockValidatedClaims(email, issuer, role string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  issuer,
			Subject: email,
		},
		CustomClaims: &middleware.CustomClaims{
			Role: role,
		},
	}
}

// SetMockAuthContext sets up a mock authenticated context for testing,
// mirroring what EnsureValidToken places there after a valid token
func SetMockAuthContext(c *gin.Context, email, issuer, role string) {
	c.Set("user_email", email)
	c.Set("user_role", role)
	c.Set("validated_claims", MockValidatedClaims(email, issuer, role))
}

// IssueTestToken signs a real session token for end-to-end middleware tests
func IssueTestToken(cfg *config.Config, email, role string) (string, error) {
	return services.IssueSessionToken(cfg, &models.User{Email: email, Role: role})
}

// CreateTestContext creates a test Gin context
func CreateTestContext() (*gin.Context, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	c, engine := gin.CreateTestContext(nil)
	return c, engine
}
