package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aditi-rao/supplylens-api/config"
	"github.com/aditi-rao/supplylens-api/models"
	"github.com/aditi-rao/supplylens-api/services"
	"github.com/aditi-rao/supplylens-api/utils"
)

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /api/v1/auth/register - creates a new account
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	if req.Password != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Passwords do not match",
			},
		})
		return
	}

	cfg := config.GetConfig()
	role := models.RoleAnalyst
	if cfg.IsAdminEmail(req.Email) {
		role = models.RoleAdmin
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: utils.HashPassword(req.Password),
		Role:         role,
	}

	db := config.GetDB()
	if err := db.Create(&user).Error; err != nil {
		// Check for duplicate email (works with both PostgreSQL and SQLite)
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "duplicate") ||
			strings.Contains(errMsg, "unique constraint") ||
			strings.Contains(errMsg, "unique") {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "USER_EXISTS",
					"message": "A user with this email already exists",
				},
			})
			return
		}

		utils.Diag(utils.SeverityError, "registration failed for %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create account",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    user,
	})
}

// Login handles POST /api/v1/auth/login - verifies credentials and issues a
// session token. Login succeeds iff the stored digest equals the digest of
// the submitted password for the matching email; either failure reports the
// same AUTH_FAILURE with no state change.
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		utils.Diag(utils.SeverityWarning, "login failed for %s: unknown email", req.Email)
		respondAuthFailure(c)
		return
	}

	if user.PasswordHash != utils.HashPassword(req.Password) {
		utils.Diag(utils.SeverityWarning, "login failed for %s: digest mismatch", req.Email)
		respondAuthFailure(c)
		return
	}

	cfg := config.GetConfig()
	token, err := services.IssueSessionToken(cfg, &user)
	if err != nil {
		utils.Diag(utils.SeverityError, "session token issue failed for %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TOKEN_ERROR",
				"message": "Failed to issue session token",
			},
		})
		return
	}

	// The mode answers "which page next" in place of launching a separate
	// process per page.
	mode := "dashboard"
	if user.Role == models.RoleAdmin {
		mode = "admin"
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"token":    token,
			"username": user.Username,
			"role":     user.Role,
			"mode":     mode,
		},
	})
}

func respondAuthFailure(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "AUTH_FAILURE",
			"message": "Invalid email or password",
		},
	})
}
