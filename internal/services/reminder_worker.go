package services

import (
	"context"
	"os"
	"time"

	"refik/internal/database"
	"refik/internal/logger"

	"go.uber.org/zap"
)

// ReminderWorker triggers the dispatcher on a fixed cadence. The HTTP
// trigger endpoint invokes the same dispatcher; both paths are safe to
// overlap because every tuple is independently deduplicated.
type ReminderWorker struct {
	dispatcher *ReminderDispatcher
	interval   time.Duration
}

func NewReminderWorker(emailService *EmailService) *ReminderWorker {
	db := database.GetDB()
	dispatcher := NewReminderDispatcher(
		NewGormEventSource(db),
		NewGormReminderLedger(db),
		NewGormEmailDirectory(db),
		emailService,
		time.Local,
	)

	interval := 15 * time.Minute
	if raw := os.Getenv("REMINDER_INTERVAL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			interval = parsed
		} else {
			logger.Log.Warn("invalid REMINDER_INTERVAL, using default", zap.String("value", raw))
		}
	}

	return &ReminderWorker{
		dispatcher: dispatcher,
		interval:   interval,
	}
}

// Dispatcher exposes the underlying dispatcher for the HTTP trigger.
func (w *ReminderWorker) Dispatcher() *ReminderDispatcher {
	return w.dispatcher
}

func (w *ReminderWorker) Start() {
	go w.run()
}

func (w *ReminderWorker) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for range ticker.C {
		sum, err := w.dispatcher.Run(context.Background())
		if err != nil {
			logger.Log.Error("reminder run failed", zap.Error(err))
			continue
		}
		if sum.Sent > 0 || sum.Failed > 0 {
			logger.Log.Info("reminder run completed",
				zap.Int("sent", sum.Sent), zap.Int("failed", sum.Failed))
		}
	}
}
