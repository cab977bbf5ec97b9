package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RSVPStatus is a user's declared attendance for an event.
type RSVPStatus string

const (
	RSVPAttending    RSVPStatus = "attending"
	RSVPNotAttending RSVPStatus = "not_attending"
)

// RSVP is one user's answer for one event. GuestCount is only meaningful
// while Status is attending; it is forced to zero otherwise.
type RSVP struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	EventID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_rsvp_event_user" json:"event_id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_rsvp_event_user" json:"user_id"`
	Status     RSVPStatus `gorm:"size:20;not null" json:"status"`
	GuestCount int        `gorm:"not null;default:0" json:"guest_count"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (r *RSVP) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (r *RSVP) BeforeSave(tx *gorm.DB) error {
	if r.Status != RSVPAttending {
		r.GuestCount = 0
	}
	if r.GuestCount < 0 {
		r.GuestCount = 0
	}
	return nil
}

// RSVPRequest is the payload for PUT /events/:id/rsvp.
type RSVPRequest struct {
	Status     RSVPStatus `json:"status" binding:"required,oneof=attending not_attending"`
	GuestCount int        `json:"guest_count" binding:"min=0"`
}
