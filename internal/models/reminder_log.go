package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReminderStatus records the outcome of a single reminder delivery attempt.
type ReminderStatus string

const (
	ReminderSent   ReminderStatus = "sent"
	ReminderFailed ReminderStatus = "failed"
)

// ReminderLog is the append-only ledger of attempted reminder deliveries.
// The unique index over (user_id, event_id, offset_type) is what makes the
// dispatcher's check-then-insert safe under overlapping invocations: a
// concurrent run that loses the race gets a duplicate-key error instead of
// a second row. Rows are never updated or deleted by the dispatcher.
type ReminderLog struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_reminder_tuple" json:"user_id"`
	EventID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_reminder_tuple" json:"event_id"`
	OffsetType ReminderOffset `gorm:"size:20;not null;uniqueIndex:idx_reminder_tuple" json:"offset_type"`
	Status     ReminderStatus `gorm:"size:10;not null" json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (r *ReminderLog) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
