package handlers

import (
	"net/http"

	"refik/internal/auth"
	"refik/internal/database"
	"refik/internal/models"

	"github.com/gin-gonic/gin"
)

// GetProfile returns the caller's display name and reminder preferences.
func GetProfile(c *gin.Context) {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	db := database.GetDB()
	var profile models.Profile
	if err := db.Where("id = ?", userID).First(&profile).Error; err != nil {
		handleError(c, http.StatusNotFound, "Profile not found", err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile applies partial updates: only the fields present in the
// payload change, so each of the five reminder flags toggles independently.
func UpdateProfile(c *gin.Context) {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var request models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	db := database.GetDB()
	var profile models.Profile
	if err := db.Where("id = ?", userID).First(&profile).Error; err != nil {
		handleError(c, http.StatusNotFound, "Profile not found", err)
		return
	}

	if request.FirstName != nil {
		profile.FirstName = *request.FirstName
	}
	if request.LastName != nil {
		profile.LastName = *request.LastName
	}
	if request.Reminder2H != nil {
		profile.Reminder2H = *request.Reminder2H
	}
	if request.Reminder1D != nil {
		profile.Reminder1D = *request.Reminder1D
	}
	if request.Reminder2D != nil {
		profile.Reminder2D = *request.Reminder2D
	}
	if request.Reminder3D != nil {
		profile.Reminder3D = *request.Reminder3D
	}
	if request.Reminder1W != nil {
		profile.Reminder1W = *request.Reminder1W
	}

	if err := db.Save(&profile).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update profile", err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
