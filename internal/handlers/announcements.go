package handlers

import (
	"errors"
	"net/http"

	"refik/internal/auth"
	"refik/internal/database"
	"refik/internal/logger"
	"refik/internal/models"
	"refik/internal/services"
	"refik/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SendAnnouncement fires one admin broadcast to an explicit recipient list.
func SendAnnouncement(announcements *services.AnnouncementService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		var request models.SendAnnouncementRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
			return
		}

		logger.Log.Info("announcement requested",
			zap.String("subject", request.Subject),
			zap.Int("recipients", len(request.RecipientIDs)),
			zap.String("client_ip", utils.GetRealClientIP(c)))

		announcement, sum, err := announcements.Send(c.Request.Context(), userID, request)
		if err != nil {
			if errors.Is(err, services.ErrNoRecipients) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "no valid recipients found"})
				return
			}
			handleError(c, http.StatusInternalServerError, "Failed to send announcement", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":         true,
			"sent":            sum.Sent,
			"failed":          sum.Failed,
			"announcement_id": announcement.ID,
		})
	}
}

// ListAnnouncements returns past broadcasts with per-recipient statuses.
func ListAnnouncements(c *gin.Context) {
	var announcements []models.Announcement
	if err := database.GetDB().
		Preload("Recipients").
		Order("created_at desc").
		Find(&announcements).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch announcements", err)
		return
	}
	c.JSON(http.StatusOK, announcements)
}
