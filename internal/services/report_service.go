package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"refik/internal/logger"
	"refik/internal/models"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReportService manages weekly-report attachments in Cloudinary and the
// retention cleanup of old report rows.
type ReportService struct {
	cld *cloudinary.Cloudinary
	db  *gorm.DB
}

func NewReportService(db *gorm.DB) (*ReportService, error) {
	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")

	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("missing Cloudinary configuration")
	}

	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}

	return &ReportService{cld: cld, db: db}, nil
}

var allowedReportTypes = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".xls":  true,
	".xlsx": true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// UploadAttachment stores a report attachment and returns its URL and the
// normalized file type ("pdf", "docx", ...).
func (s *ReportService) UploadAttachment(ctx context.Context, file multipart.File, filename string, reportID string) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedReportTypes[ext] {
		return "", "", fmt.Errorf("invalid file type: %s", ext)
	}

	overwrite := true
	result, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:     fmt.Sprintf("report_%s", reportID),
		Folder:       "refik/weekly-reports",
		Overwrite:    &overwrite,
		ResourceType: "raw",
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload attachment: %w", err)
	}

	return result.SecureURL, strings.TrimPrefix(ext, "."), nil
}

// DeleteAttachment removes a stored attachment by its report id.
func (s *ReportService) DeleteAttachment(ctx context.Context, reportID string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     fmt.Sprintf("refik/weekly-reports/report_%s", reportID),
		ResourceType: "raw",
	})
	return err
}

// CleanupOldReports deletes reports whose week started before the retention
// window, removing Cloudinary files first. Returns the number of deleted rows.
func (s *ReportService) CleanupOldReports(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-models.ReportRetention).Format("2006-01-02")

	var oldReports []models.WeeklyReport
	if err := s.db.WithContext(ctx).
		Where("week_start < ?", cutoff).
		Find(&oldReports).Error; err != nil {
		return 0, fmt.Errorf("failed to fetch old reports: %w", err)
	}
	if len(oldReports) == 0 {
		return 0, nil
	}

	ids := make([]interface{}, 0, len(oldReports))
	for _, r := range oldReports {
		if r.FileURL != "" {
			if err := s.DeleteAttachment(ctx, r.ID.String()); err != nil {
				logger.Log.Warn("failed to delete report attachment",
					zap.String("report_id", r.ID.String()), zap.Error(err))
			}
		}
		ids = append(ids, r.ID)
	}

	if err := s.db.WithContext(ctx).
		Delete(&models.WeeklyReport{}, "id IN ?", ids).Error; err != nil {
		return 0, fmt.Errorf("failed to delete old reports: %w", err)
	}

	logger.Log.Info("old weekly reports purged", zap.Int("deleted", len(ids)))
	return len(ids), nil
}

// StartCleanupWorker purges old reports once a day.
func (s *ReportService) StartCleanupWorker() {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if _, err := s.CleanupOldReports(context.Background()); err != nil {
				logger.Log.Error("report cleanup failed", zap.Error(err))
			}
		}
	}()
}
