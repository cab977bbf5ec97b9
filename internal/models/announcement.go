package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Announcement is one bulk mail fired by an administrator. Unlike reminders
// it is sent exactly once, synchronously, so no dedup ledger is involved.
type Announcement struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Subject        string    `gorm:"size:200;not null" json:"subject"`
	Body           string    `gorm:"type:text;not null" json:"body"`
	SentBy         uuid.UUID `gorm:"type:uuid;not null" json:"sent_by"`
	RecipientCount int       `gorm:"not null" json:"recipient_count"`
	CreatedAt      time.Time `json:"created_at"`

	Recipients []AnnouncementRecipient `gorm:"foreignKey:AnnouncementID" json:"recipients,omitempty"`
}

// AnnouncementRecipient is the per-recipient delivery status row.
type AnnouncementRecipient struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	AnnouncementID uuid.UUID      `gorm:"type:uuid;not null;index" json:"announcement_id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null" json:"user_id"`
	Email          string         `gorm:"size:255;not null" json:"email"`
	Status         ReminderStatus `gorm:"size:10;not null" json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
}

func (a *Announcement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (r *AnnouncementRecipient) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// SendAnnouncementRequest is the payload for POST /admin/announcements.
type SendAnnouncementRequest struct {
	Subject      string      `json:"subject" binding:"required"`
	Body         string      `json:"body" binding:"required"`
	RecipientIDs []uuid.UUID `json:"recipient_ids" binding:"required,min=1"`
}
