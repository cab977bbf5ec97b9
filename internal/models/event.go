package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// City is an admin-managed lookup row referenced by events and venues.
type City struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Venue is an admin-managed event location. PlaceID is optional and, when
// present, is validated against Google Places on create/update.
type Venue struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string     `gorm:"size:150;not null" json:"name"`
	Address   string     `gorm:"size:255" json:"address"`
	PlaceID   string     `gorm:"size:255" json:"place_id"`
	CityID    *uuid.UUID `gorm:"type:uuid;index" json:"city_id"`
	City      *City      `gorm:"foreignKey:CityID" json:"city,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Category is an admin-managed event category.
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Event is a discoverable event. Date holds the calendar day and Time the
// local clock time ("15:04"); the two are combined by StartsAt. The reminder
// dispatcher treats events as read-only input.
type Event struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string         `gorm:"size:200;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Date        datatypes.Date `gorm:"not null;index" json:"date"`
	Time        string         `gorm:"size:8;not null" json:"time"`
	CityID      *uuid.UUID     `gorm:"type:uuid;index" json:"city_id"`
	City        *City          `gorm:"foreignKey:CityID" json:"city,omitempty"`
	VenueID     *uuid.UUID     `gorm:"type:uuid;index" json:"venue_id"`
	Venue       *Venue         `gorm:"foreignKey:VenueID" json:"venue,omitempty"`
	CategoryID  *uuid.UUID     `gorm:"type:uuid;index" json:"category_id"`
	Category    *Category      `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// StartsAt combines the event's calendar date and clock time in the given
// location. Accepts "15:04" and "15:04:05" time values.
func (e *Event) StartsAt(loc *time.Location) (time.Time, error) {
	day := time.Time(e.Date)
	clock := e.Time
	layout := "15:04"
	if len(clock) == len("15:04:05") {
		layout = "15:04:05"
	}
	t, err := time.ParseInLocation(layout, clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("etkinlik saati çözümlenemedi (%q): %w", clock, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), t.Second(), 0, loc), nil
}

// Location renders "venue, city" for email bodies, omitting empty parts.
func (e *Event) Location() string {
	venue, city := "", ""
	if e.Venue != nil {
		venue = e.Venue.Name
	}
	if e.City != nil {
		city = e.City.Name
	}
	switch {
	case venue != "" && city != "":
		return venue + ", " + city
	case venue != "":
		return venue
	default:
		return city
	}
}

func (c *City) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (v *Venue) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// CreateEventRequest is the admin payload for creating or updating an event.
type CreateEventRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Date        string     `json:"date" binding:"required"` // "2006-01-02"
	Time        string     `json:"time" binding:"required"` // "15:04"
	CityID      *uuid.UUID `json:"city_id"`
	VenueID     *uuid.UUID `json:"venue_id"`
	CategoryID  *uuid.UUID `json:"category_id"`
}
