// File: handlers/auth.go
package handlers

import (
	"errors"
	"net/http"
	"time"

	staffRepo "mauryaelectronics/database/repository/staff"
	"mauryaelectronics/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const staffTokenTTL = 12 * time.Hour

// AuthHandler issues staff tokens. Authorization decisions themselves live in
// middleware; the complaint core only ever sees an opaque acting identity.
type AuthHandler struct {
	Staff  staffRepo.StaffRepository
	Logger *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(staff staffRepo.StaffRepository, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{Staff: staff, Logger: logger}
}

// LoginHandler verifies staff credentials and returns a signed JWT. The token
// hash is cached so subsequent requests validate without a database read.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Email == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		return
	}

	usr, err := h.Staff.GetByEmail(c.Request.Context(), input.Email)
	if err != nil {
		if errors.Is(err, staffRepo.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "authentication unavailable"})
		return
	}
	if !usr.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "account disabled"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := utils.GenerateToken(usr.ID, usr.Role, staffTokenTTL)
	if err != nil {
		h.Logger.Error("token generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	cacheKey := utils.AuthCachePrefix + usr.ID
	if err := utils.GetAuthCacheClient().Set(c.Request.Context(), cacheKey, utils.HashToken(token), staffTokenTTL).Err(); err != nil {
		h.Logger.Warn("auth cache write failed", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"staff": gin.H{"id": usr.ID, "name": usr.Name, "role": usr.Role},
	})
}
