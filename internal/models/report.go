package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WeeklyReport is an admin-authored report, optionally with an uploaded
// attachment. Reports older than the retention window are purged together
// with their stored files by the cleanup job.
type WeeklyReport struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	WeekStart datatypes.Date `gorm:"not null;index" json:"week_start"`
	Title     string         `gorm:"size:200;not null" json:"title"`
	Content   string         `gorm:"type:text" json:"content"`
	FileURL   string         `gorm:"size:512" json:"file_url"`
	FileType  string         `gorm:"size:10" json:"file_type"`
	CreatedBy uuid.UUID      `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (w *WeeklyReport) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// ReportRetention is how long weekly reports are kept before the cleanup
// job removes them and their attachments.
const ReportRetention = 90 * 24 * time.Hour
