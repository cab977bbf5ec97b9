package services

import (
	"context"
	"errors"
	"fmt"

	"refik/internal/logger"
	"refik/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AnnouncementMailer sends one broadcast mail. *EmailService satisfies it.
type AnnouncementMailer interface {
	SendAnnouncement(toEmail, subject, body string) error
}

// AnnouncementService fans an admin broadcast out to an explicit recipient
// list. It fires once per request, so unlike the reminder dispatcher it
// needs no dedup ledger; it shares the per-recipient send-and-log shape.
type AnnouncementService struct {
	db        *gorm.DB
	directory EmailDirectory
	mailer    AnnouncementMailer
}

func NewAnnouncementService(db *gorm.DB, directory EmailDirectory, mailer AnnouncementMailer) *AnnouncementService {
	return &AnnouncementService{db: db, directory: directory, mailer: mailer}
}

// ErrNoRecipients is returned when none of the requested ids resolve to an
// email address.
var ErrNoRecipients = errors.New("no valid recipients found")

// Send resolves recipients, records the announcement, then attempts one
// send per recipient, writing a status row for each. A failed send never
// stops the remaining recipients.
func (s *AnnouncementService) Send(ctx context.Context, sentBy uuid.UUID, req models.SendAnnouncementRequest) (*models.Announcement, Summary, error) {
	var sum Summary

	type recipient struct {
		id    uuid.UUID
		email string
	}
	var recipients []recipient
	for _, id := range req.RecipientIDs {
		email, err := s.directory.EmailForUser(ctx, id)
		if err != nil || email == "" {
			logger.Log.Warn("announcement recipient has no address",
				zap.String("user_id", id.String()), zap.Error(err))
			continue
		}
		recipients = append(recipients, recipient{id: id, email: email})
	}
	if len(recipients) == 0 {
		return nil, sum, ErrNoRecipients
	}

	announcement := &models.Announcement{
		Subject:        req.Subject,
		Body:           req.Body,
		SentBy:         sentBy,
		RecipientCount: len(recipients),
	}
	if err := s.db.WithContext(ctx).Create(announcement).Error; err != nil {
		return nil, sum, fmt.Errorf("failed to create announcement: %w", err)
	}

	for _, r := range recipients {
		status := models.ReminderSent
		if err := s.mailer.SendAnnouncement(r.email, req.Subject, req.Body); err != nil {
			logger.Log.Error("announcement send failed",
				zap.String("email", r.email), zap.Error(err))
			status = models.ReminderFailed
		}

		row := models.AnnouncementRecipient{
			AnnouncementID: announcement.ID,
			UserID:         r.id,
			Email:          r.email,
			Status:         status,
		}
		if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
			logger.Log.Error("failed to record announcement recipient",
				zap.String("email", r.email), zap.Error(err))
		}

		if status == models.ReminderSent {
			sum.Sent++
		} else {
			sum.Failed++
		}
	}

	logger.SLog.Infof("Duyuru gönderildi: %q, %d alıcı (%d başarısız)",
		req.Subject, sum.Sent, sum.Failed)
	return announcement, sum, nil
}
