package services

import (
	"context"
	"errors"
	"time"

	"refik/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormEventSource reads events, RSVPs and profiles from the relational store.
type GormEventSource struct {
	db *gorm.DB
}

func NewGormEventSource(db *gorm.DB) *GormEventSource {
	return &GormEventSource{db: db}
}

func (s *GormEventSource) UpcomingEvents(ctx context.Context, from time.Time) ([]models.Event, error) {
	var events []models.Event
	today := from.Format("2006-01-02")
	err := s.db.WithContext(ctx).
		Preload("City").
		Preload("Venue").
		Where("date >= ?", today).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (s *GormEventSource) AttendingUserIDs(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).
		Model(&models.RSVP{}).
		Where("event_id = ? AND status = ?", eventID, models.RSVPAttending).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *GormEventSource) ProfilesByID(ctx context.Context, ids []uuid.UUID) ([]models.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var profiles []models.Profile
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// GormReminderLedger stores reminder log rows. The table's unique index on
// (user_id, event_id, offset_type) backs the at-most-once contract.
type GormReminderLedger struct {
	db *gorm.DB
}

func NewGormReminderLedger(db *gorm.DB) *GormReminderLedger {
	return &GormReminderLedger{db: db}
}

func (l *GormReminderLedger) AlreadyLogged(ctx context.Context, userID, eventID uuid.UUID, offset models.ReminderOffset) (bool, error) {
	var count int64
	err := l.db.WithContext(ctx).
		Model(&models.ReminderLog{}).
		Where("user_id = ? AND event_id = ? AND offset_type = ?", userID, eventID, offset).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (l *GormReminderLedger) Append(ctx context.Context, entry *models.ReminderLog) error {
	err := l.db.WithContext(ctx).Create(entry).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrReminderAlreadyLogged
	}
	return err
}

// GormEmailDirectory resolves user ids to addresses via the account table,
// which mirrors what the identity provider knows about each user.
type GormEmailDirectory struct {
	db *gorm.DB
}

func NewGormEmailDirectory(db *gorm.DB) *GormEmailDirectory {
	return &GormEmailDirectory{db: db}
}

func (d *GormEmailDirectory) EmailForUser(ctx context.Context, userID uuid.UUID) (string, error) {
	var account models.Account
	err := d.db.WithContext(ctx).
		Select("email").
		Where("id = ?", userID).
		First(&account).Error
	if err != nil {
		return "", err
	}
	return account.Email, nil
}
