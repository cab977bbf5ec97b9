package handlers

import (
	"context"
	"net/http"
	"os"

	"refik/internal/services"

	"github.com/gin-gonic/gin"
)

// ReminderRunner is the dispatcher surface the trigger endpoint needs.
type ReminderRunner interface {
	Run(ctx context.Context) (services.Summary, error)
}

// ReportCleaner is the retention-job surface the cleanup endpoint needs.
type ReportCleaner interface {
	CleanupOldReports(ctx context.Context) (int, error)
}

// requireJobToken rejects the call when REMINDER_JOB_TOKEN is configured
// and the X-Job-Token header does not match. With no token configured the
// endpoint is open, which suits a private network scheduler.
func requireJobToken(c *gin.Context) bool {
	token := os.Getenv("REMINDER_JOB_TOKEN")
	if token == "" {
		return true
	}
	if c.GetHeader("X-Job-Token") != token {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid job token"})
		return false
	}
	return true
}

// TriggerReminders runs one dispatcher invocation. The endpoint takes no
// body; repeated or overlapping calls are safe.
func TriggerReminders(runner ReminderRunner) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireJobToken(c) {
			return
		}

		sum, err := runner.Run(c.Request.Context())
		if err != nil {
			handleError(c, http.StatusInternalServerError, "Failed to fetch events: "+err.Error(), err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"sent":    sum.Sent,
			"failed":  sum.Failed,
		})
	}
}

// TriggerReportCleanup purges weekly reports past the retention window.
func TriggerReportCleanup(cleaner ReportCleaner) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireJobToken(c) {
			return
		}

		deleted, err := cleaner.CleanupOldReports(c.Request.Context())
		if err != nil {
			handleError(c, http.StatusInternalServerError, "Failed to clean up reports", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"deleted": deleted})
	}
}
