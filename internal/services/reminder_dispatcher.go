package services

import (
	"context"
	"errors"
	"time"

	"refik/internal/logger"
	"refik/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTolerance is the margin around an offset's exact due instant within
// which a reminder still counts as due. It must be at least half the trigger
// cadence or due moments can fall between two runs.
const DefaultTolerance = 30 * time.Minute

// ErrReminderAlreadyLogged is returned by a ReminderLedger append when a row
// for the same (user, event, offset) tuple already exists. The dispatcher
// swallows it: a concurrent invocation won the race and the tuple is done.
var ErrReminderAlreadyLogged = errors.New("reminder already logged for tuple")

// EventSource supplies the read-only inputs of a dispatcher run.
type EventSource interface {
	// UpcomingEvents returns events whose calendar date is on or after the
	// date of "from". This is a coarse pre-filter; the dispatcher still
	// discards events whose exact start time has passed.
	UpcomingEvents(ctx context.Context, from time.Time) ([]models.Event, error)
	// AttendingUserIDs returns the user ids with an attending RSVP.
	AttendingUserIDs(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error)
	// ProfilesByID returns reminder-preference profiles for the given users.
	ProfilesByID(ctx context.Context, ids []uuid.UUID) ([]models.Profile, error)
}

// ReminderLedger is the append-only dedup ledger.
type ReminderLedger interface {
	AlreadyLogged(ctx context.Context, userID, eventID uuid.UUID, offset models.ReminderOffset) (bool, error)
	// Append writes exactly one row; it returns ErrReminderAlreadyLogged when
	// the tuple's unique constraint rejects the insert.
	Append(ctx context.Context, entry *models.ReminderLog) error
}

// EmailDirectory resolves a user id to an email address, the analog of an
// admin-level lookup against the identity provider.
type EmailDirectory interface {
	EmailForUser(ctx context.Context, userID uuid.UUID) (string, error)
}

// ReminderMailer sends a single reminder mail. *EmailService satisfies it.
type ReminderMailer interface {
	SendEventReminder(toEmail, firstName string, event *models.Event, label string) error
}

// Summary is the operational result of one dispatcher run.
type Summary struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// ReminderDispatcher decides, per invocation, which (user, event, offset)
// reminders are due right now and delivers each at most once. It keeps no
// state between runs: correctness rests entirely on the ledger, so the job
// may be triggered at any cadence, repeatedly, or concurrently.
type ReminderDispatcher struct {
	events    EventSource
	ledger    ReminderLedger
	directory EmailDirectory
	mailer    ReminderMailer
	loc       *time.Location
	tolerance time.Duration
	now       func() time.Time
}

// NewReminderDispatcher wires a dispatcher with the default tolerance and
// wall clock. The location is the shared reference timezone in which event
// date and time columns are interpreted.
func NewReminderDispatcher(events EventSource, ledger ReminderLedger, directory EmailDirectory, mailer ReminderMailer, loc *time.Location) *ReminderDispatcher {
	if loc == nil {
		loc = time.Local
	}
	return &ReminderDispatcher{
		events:    events,
		ledger:    ledger,
		directory: directory,
		mailer:    mailer,
		loc:       loc,
		tolerance: DefaultTolerance,
		now:       time.Now,
	}
}

// Run executes one dispatcher invocation. A failure to load events aborts
// the whole run (nothing has been written yet, so the next trigger retries
// from scratch); every later failure is isolated to its own tuple.
func (d *ReminderDispatcher) Run(ctx context.Context) (Summary, error) {
	now := d.now().In(d.loc)
	var sum Summary

	events, err := d.events.UpcomingEvents(ctx, now)
	if err != nil {
		return sum, err
	}

	for i := range events {
		event := &events[i]

		startsAt, err := event.StartsAt(d.loc)
		if err != nil {
			logger.Log.Warn("skipping event with unparseable time",
				zap.String("event_id", event.ID.String()), zap.Error(err))
			continue
		}

		// The coarse date filter lets through events earlier today that
		// have already started; the exact check happens here.
		remaining := startsAt.Sub(now)
		if remaining < 0 {
			continue
		}

		due := d.dueOffsets(remaining)
		if len(due) == 0 {
			continue
		}

		userIDs, err := d.events.AttendingUserIDs(ctx, event.ID)
		if err != nil {
			logger.Log.Error("failed to load RSVPs",
				zap.String("event_id", event.ID.String()), zap.Error(err))
			continue
		}
		if len(userIDs) == 0 {
			continue
		}

		profiles, err := d.events.ProfilesByID(ctx, userIDs)
		if err != nil {
			logger.Log.Error("failed to load profiles",
				zap.String("event_id", event.ID.String()), zap.Error(err))
			continue
		}

		for _, spec := range due {
			for j := range profiles {
				profile := &profiles[j]
				if !profile.ReminderEnabled(spec.Key) {
					continue
				}
				d.processTuple(ctx, event, profile, spec, &sum)
			}
		}
	}

	return sum, nil
}

// dueOffsets returns the offsets whose exact due instant falls within the
// tolerance window of "now" for an event starting in "remaining".
func (d *ReminderDispatcher) dueOffsets(remaining time.Duration) []models.OffsetSpec {
	var due []models.OffsetSpec
	for _, spec := range models.OffsetTable {
		delta := remaining - spec.Duration
		if delta < 0 {
			delta = -delta
		}
		if delta <= d.tolerance {
			due = append(due, spec)
		}
	}
	return due
}

// processTuple handles one (user, event, offset) unit: dedup check, address
// lookup, send, and exactly one ledger row for the attempt. Failures here
// never propagate; they only shape the counters.
func (d *ReminderDispatcher) processTuple(ctx context.Context, event *models.Event, profile *models.Profile, spec models.OffsetSpec, sum *Summary) {
	logged, err := d.ledger.AlreadyLogged(ctx, profile.ID, event.ID, spec.Key)
	if err != nil {
		logger.Log.Error("ledger check failed",
			zap.String("user_id", profile.ID.String()),
			zap.String("event_id", event.ID.String()),
			zap.String("offset", string(spec.Key)),
			zap.Error(err))
		return
	}
	if logged {
		return
	}

	// No ledger row is written on a lookup miss, so the tuple is retried on
	// later runs while the window still matches.
	email, err := d.directory.EmailForUser(ctx, profile.ID)
	if err != nil || email == "" {
		logger.Log.Warn("no email address for user, skipping tuple",
			zap.String("user_id", profile.ID.String()),
			zap.String("event_id", event.ID.String()),
			zap.String("offset", string(spec.Key)),
			zap.Error(err))
		return
	}

	status := models.ReminderSent
	if sendErr := d.mailer.SendEventReminder(email, profile.FirstName, event, spec.Label); sendErr != nil {
		// A failed send is presumed provider- or recipient-side and is not
		// retried; the failed ledger row marks the tuple as handled.
		logger.Log.Error("reminder send failed",
			zap.String("email", email),
			zap.String("event_id", event.ID.String()),
			zap.String("offset", string(spec.Key)),
			zap.Error(sendErr))
		status = models.ReminderFailed
	}

	entry := &models.ReminderLog{
		UserID:     profile.ID,
		EventID:    event.ID,
		OffsetType: spec.Key,
		Status:     status,
	}
	if err := d.ledger.Append(ctx, entry); err != nil {
		if errors.Is(err, ErrReminderAlreadyLogged) {
			// A concurrent invocation logged the tuple between our check and
			// insert. Its counters own the attempt.
			return
		}
		logger.Log.Error("failed to append reminder log",
			zap.String("user_id", profile.ID.String()),
			zap.String("event_id", event.ID.String()),
			zap.String("offset", string(spec.Key)),
			zap.Error(err))
		return
	}

	if status == models.ReminderSent {
		sum.Sent++
		logger.SLog.Infof("Hatırlatma gönderildi: %s, etkinlik %s (%s)", email, event.Title, spec.Key)
	} else {
		sum.Failed++
	}
}
