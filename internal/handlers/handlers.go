package handlers

import (
	"net/http"

	"refik/internal/auth"
	"refik/internal/database"
	"refik/internal/logger"
	"refik/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// handleError provides a consistent way to handle and log errors
func handleError(c *gin.Context, status int, message string, err error) {
	logger.Log.Error(message, zap.Error(err))
	c.JSON(status, gin.H{"error": message})
}

// HomeHandler handles requests to the root path "/"
func HomeHandler(c *gin.Context) {
	c.String(http.StatusOK, "Refik, Keşif ve İnşa")
}

// HealthHandler is a simple health check endpoint
func HealthHandler(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// LoginHandler redirects to Google OAuth login
func LoginHandler(c *gin.Context) {
	url, err := auth.GetLoginURL(c)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to generate login URL", err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// GoogleCallbackHandler processes the OAuth callback from Google
func GoogleCallbackHandler(c *gin.Context) {
	auth.HandleGoogleCallback(c)
}

// LogoutHandler handles user logout
func LogoutHandler(c *gin.Context) {
	auth.LogoutHandler(c)
}

// GetCurrentUser returns the authenticated account with its roles.
func GetCurrentUser(c *gin.Context) {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	db := database.GetDB()
	var account models.Account
	if err := db.Where("id = ?", userID).First(&account).Error; err != nil {
		handleError(c, http.StatusNotFound, "Account not found", err)
		return
	}

	var roles []string
	db.Model(&models.UserRole{}).Where("user_id = ?", userID).Pluck("role", &roles)

	c.JSON(http.StatusOK, gin.H{"account": account, "roles": roles})
}
