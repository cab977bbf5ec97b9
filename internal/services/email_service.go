package services

import (
	"fmt"
	"os"
	"time"

	"refik/internal/models"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type EmailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewEmailService() *EmailService {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	fromEmail := os.Getenv("SENDGRID_FROM_EMAIL")
	fromName := os.Getenv("SENDGRID_FROM_NAME")

	client := sendgrid.NewSendClient(apiKey)

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

// SendEventReminder mails one user about one upcoming event for one offset.
// The body mirrors what the web app promises on the profile page: title,
// date and time, location when known, and the event description.
func (s *EmailService) SendEventReminder(toEmail, firstName string, event *models.Event, label string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(firstName, toEmail)

	subject := fmt.Sprintf("Hatırlatma: %s - %s sonra", event.Title, label)
	date := time.Time(event.Date).Format("2006-01-02")

	plainContent := fmt.Sprintf("Merhaba %s, %s etkinliğiniz %s sonra başlayacak (%s %s).",
		firstName, event.Title, label, date, event.Time)

	locationLine := ""
	if loc := event.Location(); loc != "" {
		locationLine = fmt.Sprintf(`<p style="color: #555; font-size: 14px; margin: 4px 0;">📍 %s</p>`, loc)
	}
	descriptionLine := ""
	if event.Description != "" {
		descriptionLine = fmt.Sprintf(`<p style="color: #666; font-size: 14px; margin: 12px 0 0 0;">%s</p>`, event.Description)
	}

	htmlContent := fmt.Sprintf(`
<div style="font-family: 'Inter', Arial, sans-serif; max-width: 600px; margin: 0 auto; background: #ffffff; padding: 40px 30px;">
  <h1 style="color: #2d3561; font-size: 24px; margin-bottom: 8px;">⏰ Etkinlik Hatırlatması</h1>
  <p style="color: #666; font-size: 14px; margin-bottom: 24px;">%s sonra başlayacak bir etkinliğiniz var</p>
  <div style="background: #f8f9fa; border-radius: 12px; padding: 24px; margin-bottom: 24px;">
    <h2 style="color: #2d3561; font-size: 20px; margin: 0 0 12px 0;">%s</h2>
    <p style="color: #555; font-size: 14px; margin: 4px 0;">📅 %s — 🕐 %s</p>
    %s
    %s
  </div>
  <p style="color: #333; font-size: 14px;">Merhaba %s, bu etkinliğe katılacağınızı biliyoruz. Hazır olun! 🎉</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;" />
  <p style="color: #999; font-size: 12px;">Bu e-posta Refik, Keşif ve İnşa platformu tarafından gönderilmiştir. Hatırlatıcı tercihlerinizi profil sayfanızdan değiştirebilirsiniz.</p>
</div>`,
		label, event.Title, date, event.Time, locationLine, descriptionLine, firstName)

	message := mail.NewSingleEmail(from, subject, to, plainContent, htmlContent)
	response, err := s.client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email to %s: %d", toEmail, response.StatusCode)
	}
	return nil
}

// SendAnnouncement mails one recipient of an admin broadcast.
func (s *EmailService) SendAnnouncement(toEmail, subject, body string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail("", toEmail)

	htmlContent := fmt.Sprintf(`
<div style="font-family: 'Inter', Arial, sans-serif; max-width: 600px; margin: 0 auto; background: #ffffff; padding: 40px 30px;">
  <h1 style="color: #2d3561; font-size: 24px; margin-bottom: 20px;">%s</h1>
  <div style="color: #333; font-size: 15px; line-height: 1.7; white-space: pre-wrap;">%s</div>
  <hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;" />
  <p style="color: #999; font-size: 12px;">Bu e-posta Refik, Keşif ve İnşa platformu tarafından gönderilmiştir.</p>
</div>`, subject, body)

	message := mail.NewSingleEmail(from, subject, to, body, htmlContent)
	response, err := s.client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email to %s: %d", toEmail, response.StatusCode)
	}
	return nil
}
