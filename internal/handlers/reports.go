package handlers

import (
	"net/http"
	"time"

	"refik/internal/auth"
	"refik/internal/database"
	"refik/internal/models"
	"refik/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ListReports returns weekly reports inside the retention window, newest
// week first.
func ListReports(c *gin.Context) {
	cutoff := time.Now().Add(-models.ReportRetention).Format("2006-01-02")

	var reports []models.WeeklyReport
	if err := database.GetDB().
		Where("week_start >= ?", cutoff).
		Order("week_start desc").
		Find(&reports).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch reports", err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

// CreateReport accepts a multipart form with week_start, title, content and
// an optional attachment. A report needs content or a file, not necessarily
// both.
func CreateReport(reportService *services.ReportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		weekStart, err := time.Parse("2006-01-02", c.PostForm("week_start"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "week_start must be in 2006-01-02 format"})
			return
		}
		title := c.PostForm("title")
		if title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
			return
		}
		content := c.PostForm("content")

		report := models.WeeklyReport{
			ID:        uuid.New(),
			WeekStart: datatypes.Date(weekStart),
			Title:     title,
			Content:   content,
			CreatedBy: userID,
		}

		fileHeader, err := c.FormFile("file")
		if content == "" && err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "content or file is required"})
			return
		}
		if err == nil {
			if reportService == nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "file storage is not configured"})
				return
			}
			file, err := fileHeader.Open()
			if err != nil {
				handleError(c, http.StatusInternalServerError, "Failed to read upload", err)
				return
			}
			defer file.Close()

			url, fileType, err := reportService.UploadAttachment(c.Request.Context(), file, fileHeader.Filename, report.ID.String())
			if err != nil {
				handleError(c, http.StatusBadRequest, "Failed to upload attachment", err)
				return
			}
			report.FileURL = url
			report.FileType = fileType
		}

		if err := database.GetDB().Create(&report).Error; err != nil {
			handleError(c, http.StatusInternalServerError, "Failed to create report", err)
			return
		}

		c.JSON(http.StatusCreated, report)
	}
}

// UpdateReport edits an existing report; a new attachment replaces the old
// one under the same storage id.
func UpdateReport(reportService *services.ReportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
			return
		}

		db := database.GetDB()
		var report models.WeeklyReport
		if err := db.Where("id = ?", id).First(&report).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
			return
		}

		if raw := c.PostForm("week_start"); raw != "" {
			weekStart, err := time.Parse("2006-01-02", raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "week_start must be in 2006-01-02 format"})
				return
			}
			report.WeekStart = datatypes.Date(weekStart)
		}
		if title := c.PostForm("title"); title != "" {
			report.Title = title
		}
		if content, ok := c.GetPostForm("content"); ok {
			report.Content = content
		}

		if fileHeader, err := c.FormFile("file"); err == nil {
			if reportService == nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "file storage is not configured"})
				return
			}
			file, err := fileHeader.Open()
			if err != nil {
				handleError(c, http.StatusInternalServerError, "Failed to read upload", err)
				return
			}
			defer file.Close()

			url, fileType, err := reportService.UploadAttachment(c.Request.Context(), file, fileHeader.Filename, report.ID.String())
			if err != nil {
				handleError(c, http.StatusBadRequest, "Failed to upload attachment", err)
				return
			}
			report.FileURL = url
			report.FileType = fileType
		}

		if err := db.Save(&report).Error; err != nil {
			handleError(c, http.StatusInternalServerError, "Failed to update report", err)
			return
		}

		c.JSON(http.StatusOK, report)
	}
}

// DeleteReport removes a report and its stored attachment.
func DeleteReport(reportService *services.ReportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
			return
		}

		db := database.GetDB()
		var report models.WeeklyReport
		if err := db.Where("id = ?", id).First(&report).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
			return
		}

		if report.FileURL != "" && reportService != nil {
			// Best effort; the row goes away regardless.
			_ = reportService.DeleteAttachment(c.Request.Context(), report.ID.String())
		}

		if err := db.Delete(&report).Error; err != nil {
			handleError(c, http.StatusInternalServerError, "Failed to delete report", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
