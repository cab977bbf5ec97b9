package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile holds a user's display name and the five independent reminder
// preference flags. The row shares its id with the auth account.
type Profile struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName  string    `gorm:"size:100" json:"first_name"`
	LastName   string    `gorm:"size:100" json:"last_name"`
	Reminder2H bool      `gorm:"column:reminder_2h;not null;default:false" json:"reminder_2h"`
	Reminder1D bool      `gorm:"column:reminder_1d;not null;default:false" json:"reminder_1d"`
	Reminder2D bool      `gorm:"column:reminder_2d;not null;default:false" json:"reminder_2d"`
	Reminder3D bool      `gorm:"column:reminder_3d;not null;default:false" json:"reminder_3d"`
	Reminder1W bool      `gorm:"column:reminder_1w;not null;default:false" json:"reminder_1w"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ReminderEnabled reports whether the given offset is switched on for this
// profile. Unknown keys are treated as disabled.
func (p *Profile) ReminderEnabled(key ReminderOffset) bool {
	switch key {
	case Offset2Hours:
		return p.Reminder2H
	case Offset1Day:
		return p.Reminder1D
	case Offset2Days:
		return p.Reminder2D
	case Offset3Days:
		return p.Reminder3D
	case Offset1Week:
		return p.Reminder1W
	}
	return false
}

// UpdateProfileRequest is the payload for PUT /profile.
type UpdateProfileRequest struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Reminder2H *bool   `json:"reminder_2h"`
	Reminder1D *bool   `json:"reminder_1d"`
	Reminder2D *bool   `json:"reminder_2d"`
	Reminder3D *bool   `json:"reminder_3d"`
	Reminder1W *bool   `json:"reminder_1w"`
}
