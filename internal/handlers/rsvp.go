package handlers

import (
	"errors"
	"net/http"

	"refik/internal/auth"
	"refik/internal/database"
	"refik/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UpsertRSVP records or updates the caller's RSVP for an event. Guest count
// is only kept while attending.
func UpsertRSVP(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var request models.RSVPRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	db := database.GetDB()

	var event models.Event
	if err := db.Where("id = ?", eventID).First(&event).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}

	var rsvp models.RSVP
	err = db.Where("event_id = ? AND user_id = ?", eventID, userID).First(&rsvp).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		rsvp = models.RSVP{
			EventID:    eventID,
			UserID:     userID,
			Status:     request.Status,
			GuestCount: request.GuestCount,
		}
		if err := db.Create(&rsvp).Error; err != nil {
			handleError(c, http.StatusInternalServerError, "Failed to create RSVP", err)
			return
		}
	case err != nil:
		handleError(c, http.StatusInternalServerError, "Failed to fetch RSVP", err)
		return
	default:
		rsvp.Status = request.Status
		rsvp.GuestCount = request.GuestCount
		if err := db.Save(&rsvp).Error; err != nil {
			handleError(c, http.StatusInternalServerError, "Failed to update RSVP", err)
			return
		}
	}

	c.JSON(http.StatusOK, rsvp)
}
