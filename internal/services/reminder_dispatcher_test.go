package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"refik/internal/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// fakeEventSource serves events and RSVPs from memory, filtering the same
// way the SQL-backed source does.
type fakeEventSource struct {
	events   []models.Event
	rsvps    map[uuid.UUID][]models.RSVP
	profiles map[uuid.UUID]models.Profile

	eventsErr error
}

func (f *fakeEventSource) UpcomingEvents(ctx context.Context, from time.Time) ([]models.Event, error) {
	if f.eventsErr != nil {
		return nil, f.eventsErr
	}
	today := from.Format("2006-01-02")
	var out []models.Event
	for _, e := range f.events {
		if time.Time(e.Date).Format("2006-01-02") >= today {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventSource) AttendingUserIDs(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, r := range f.rsvps[eventID] {
		if r.Status == models.RSVPAttending {
			ids = append(ids, r.UserID)
		}
	}
	return ids, nil
}

func (f *fakeEventSource) ProfilesByID(ctx context.Context, ids []uuid.UUID) ([]models.Profile, error) {
	var out []models.Profile
	for _, id := range ids {
		if p, ok := f.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// fakeLedger stores log rows keyed by tuple and enforces uniqueness the way
// the database index does.
type fakeLedger struct {
	rows       map[string]*models.ReminderLog
	appendErr  error
	duplicates int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{rows: make(map[string]*models.ReminderLog)}
}

func tupleKey(userID, eventID uuid.UUID, offset models.ReminderOffset) string {
	return fmt.Sprintf("%s|%s|%s", userID, eventID, offset)
}

func (l *fakeLedger) AlreadyLogged(ctx context.Context, userID, eventID uuid.UUID, offset models.ReminderOffset) (bool, error) {
	_, ok := l.rows[tupleKey(userID, eventID, offset)]
	return ok, nil
}

func (l *fakeLedger) Append(ctx context.Context, entry *models.ReminderLog) error {
	if l.appendErr != nil {
		return l.appendErr
	}
	key := tupleKey(entry.UserID, entry.EventID, entry.OffsetType)
	if _, ok := l.rows[key]; ok {
		l.duplicates++
		return ErrReminderAlreadyLogged
	}
	l.rows[key] = entry
	return nil
}

func (l *fakeLedger) statusOf(userID, eventID uuid.UUID, offset models.ReminderOffset) (models.ReminderStatus, bool) {
	row, ok := l.rows[tupleKey(userID, eventID, offset)]
	if !ok {
		return "", false
	}
	return row.Status, true
}

// fakeDirectory resolves ids to addresses, with optional per-user misses.
type fakeDirectory struct {
	emails map[uuid.UUID]string
}

func (d *fakeDirectory) EmailForUser(ctx context.Context, userID uuid.UUID) (string, error) {
	email, ok := d.emails[userID]
	if !ok {
		return "", errors.New("no such user")
	}
	return email, nil
}

// fakeMailer records sends and fails for blacklisted addresses.
type fakeMailer struct {
	sent    []string
	failFor map[string]bool
}

func (m *fakeMailer) SendEventReminder(toEmail, firstName string, event *models.Event, label string) error {
	if m.failFor[toEmail] {
		return errors.New("provider rejected message")
	}
	m.sent = append(m.sent, toEmail)
	return nil
}

func dateOf(y int, mo time.Month, d int) datatypes.Date {
	return datatypes.Date(time.Date(y, mo, d, 0, 0, 0, 0, time.UTC))
}

type fixture struct {
	source *fakeEventSource
	ledger *fakeLedger
	dir    *fakeDirectory
	mailer *fakeMailer
	disp   *ReminderDispatcher

	event models.Event
	user  uuid.UUID
}

// newFixture builds a dispatcher around one event ("Konser", 2026-03-10
// 20:00) with one attending user whose 1-day reminder is enabled.
func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()

	eventID := uuid.New()
	userID := uuid.New()

	event := models.Event{
		ID:    eventID,
		Title: "Konser",
		Date:  dateOf(2026, time.March, 10),
		Time:  "20:00",
	}

	source := &fakeEventSource{
		events: []models.Event{event},
		rsvps: map[uuid.UUID][]models.RSVP{
			eventID: {{EventID: eventID, UserID: userID, Status: models.RSVPAttending, GuestCount: 1}},
		},
		profiles: map[uuid.UUID]models.Profile{
			userID: {ID: userID, FirstName: "Umut", Reminder1D: true},
		},
	}
	ledger := newFakeLedger()
	dir := &fakeDirectory{emails: map[uuid.UUID]string{userID: "umut@example.com"}}
	mailer := &fakeMailer{failFor: map[string]bool{}}

	disp := NewReminderDispatcher(source, ledger, dir, mailer, time.UTC)
	disp.now = func() time.Time { return now }

	return &fixture{
		source: source,
		ledger: ledger,
		dir:    dir,
		mailer: mailer,
		disp:   disp,
		event:  event,
		user:   userID,
	}
}

func TestRunSendsDueReminder(t *testing.T) {
	// Five minutes past the exact 1-day mark, well inside tolerance.
	now := time.Date(2026, time.March, 9, 20, 5, 0, 0, time.UTC)
	f := newFixture(t, now)

	sum, err := f.disp.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Sent != 1 || sum.Failed != 0 {
		t.Fatalf("summary = %+v, want 1 sent, 0 failed", sum)
	}
	if len(f.mailer.sent) != 1 || f.mailer.sent[0] != "umut@example.com" {
		t.Fatalf("mailer sent = %v", f.mailer.sent)
	}
	status, ok := f.ledger.statusOf(f.user, f.event.ID, models.Offset1Day)
	if !ok || status != models.ReminderSent {
		t.Fatalf("ledger row = %v, %v; want sent", status, ok)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	now := time.Date(2026, time.March, 9, 20, 5, 0, 0, time.UTC)
	f := newFixture(t, now)

	if _, err := f.disp.Run(context.Background()); err != nil {
		t.Fatalf("first Run: %v", err)
	}

	// Second invocation fifteen minutes later, still inside the window.
	f.disp.now = func() time.Time { return now.Add(15 * time.Minute) }
	sum, err := f.disp.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if sum.Sent != 0 || sum.Failed != 0 {
		t.Fatalf("second run summary = %+v, want zero", sum)
	}
	if len(f.mailer.sent) != 1 {
		t.Fatalf("total mails = %d, want 1", len(f.mailer.sent))
	}
	if len(f.ledger.rows) != 1 {
		t.Fatalf("ledger rows = %d, want 1", len(f.ledger.rows))
	}
}

func TestWindowSelection(t *testing.T) {
	eventStart := time.Date(2026, time.March, 10, 20, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		now  time.Time
		want int // mails sent
	}{
		{"exactly one day before", eventStart.Add(-24 * time.Hour), 1},
		{"inside tolerance", eventStart.Add(-24*time.Hour + 29*time.Minute), 1},
		{"just outside tolerance", eventStart.Add(-24*time.Hour - 31*time.Minute), 0},
		{"two hours early for the window", eventStart.Add(-24*time.Hour - 2*time.Hour), 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, tc.now)
			sum, err := f.disp.Run(context.Background())
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if sum.Sent != tc.want {
				t.Fatalf("sent = %d, want %d", sum.Sent, tc.want)
			}
		})
	}
}

func TestPreferenceGating(t *testing.T) {
	now := time.Date(2026, time.March, 9, 20, 0, 0, 0, time.UTC)
	f := newFixture(t, now)

	// Same user, 1-day flag off, everything else on.
	f.source.profiles[f.user] = models.Profile{
		ID: f.user, FirstName: "Umut",
		Reminder2H: true, Reminder2D: true, Reminder3D: true, Reminder1W: true,
	}

	sum, err := f.disp.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Sent != 0 || len(f.mailer.sent) != 0 {
		t.Fatalf("got %d sent, want none: only the 1-day window is open", sum.Sent)
	}
}

func TestAttendanceGating(t *testing.T) {
	now := time.Date(2026, time.March, 9, 20, 0, 0, 0, time.UTC)
	f := newFixture(t, now)

	f.source.rsvps[f.event.ID] = []models.RSVP{
		{EventID: f.event.ID, UserID: f.user, Status: models.RSVPNotAttending},
	}

	sum, err := f.disp.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Sent != 0 || len(f.ledger.rows) != 0 {
		t.Fatalf("not_attending user must never be reminded, got %+v", sum)
	}
}

func TestPastEventExcluded(t *testing.T) {
	// Event is today but started five minutes ago; the coarse date filter
	// lets it through, the exact check must not.
	now := time.Date(2026, time.March, 10, 20, 5, 0, 0, time.UTC)
	f := newFixture(t, now)
	f.source.profiles[f.user] = models.Profile{ID: f.user, FirstName: "Umut", Reminder2H: true}
	// Widen the tolerance so only the exact past check can exclude it.
	f.disp.tolerance = 3 * time.Hour

	sum, err := f.disp.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Sent != 0 || len(f.mailer.sent) != 0 {
		t.Fatalf("past event must be skipped, got %+v", sum)
	}
}

func TestFailureIsolation(t *testing.T) {
	now := time.Date(2026, time.March, 9, 20, 0, 0, 0, time.UTC)
	f := newFixture(t, now)

	other := uuid.New()
	f.source.rsvps[f.event.ID] = append(f.source.rsvps[f.event.ID],
		models.RSVP{EventID: f.event.ID, UserID: other, Status: models.RSVPAttending})
	f.source.profiles[other] = models.Profile{ID: other, FirstName: "Deniz", Reminder1D: true}
	f.dir.emails[other] = "deniz@example.com"
	f.mailer.failFor["umut@example.com"] = true

	sum, err := f.disp.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Sent != 1 || sum.Failed != 1 {
		t.Fatalf("summary = %+v, want 1 sent and 1 failed", sum)
	}

	if status, ok := f.ledger.statusOf(f.user, f.event.ID, models.Offset1Day); !ok || status != models.ReminderFailed {
		t.Fatalf("failing recipient row = %v, %v; want failed", status, ok)
	}
	if status, ok := f.ledger.statusOf(other, f.event.ID, models.Offset1Day); !ok || status != models.ReminderSent {
		t.Fatalf("succeeding recipient row = %v, %v; want sent", status, ok)
	}

	// A failed tuple is handled, not retried.
	sum, err = f.disp.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if sum.Sent != 0 || sum.Failed != 0 {
		t.Fatalf("failed tuple was retried: %+v", sum)
	}
}

func TestLookupFailureRetriesNextRun(t *testing.T) {
	now := time.Date(2026, time.March, 9, 20, 0, 0, 0, time.UTC)
	f := newFixture(t, now)
	delete(f.dir.emails, f.user)

	sum, err := f.disp.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Sent != 0 || sum.Failed != 0 {
		t.Fatalf("unresolvable user must be silently skipped, got %+v", sum)
	}
	if len(f.ledger.rows) != 0 {
		t.Fatal("no ledger row may be written on a lookup miss")
	}

	// Address appears before the next run inside the same window.
	f.dir.emails[f.user] = "umut@example.com"
	f.disp.now = func() time.Time { return now.Add(10 * time.Minute) }
	sum, err = f.disp.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if sum.Sent != 1 {
		t.Fatalf("tuple must be retried once resolvable, got %+v", sum)
	}
}

func TestConcurrentInsertLosesQuietly(t *testing.T) {
	now := time.Date(2026, time.March, 9, 20, 0, 0, 0, time.UTC)
	f := newFixture(t, now)
	f.ledger.appendErr = ErrReminderAlreadyLogged

	sum, err := f.disp.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// The concurrent run's counters own the attempt.
	if sum.Sent != 0 || sum.Failed != 0 {
		t.Fatalf("duplicate insert must not be counted, got %+v", sum)
	}
}

func TestUpstreamFailureAbortsRun(t *testing.T) {
	now := time.Date(2026, time.March, 9, 20, 0, 0, 0, time.UTC)
	f := newFixture(t, now)
	f.source.eventsErr = errors.New("connection refused")

	if _, err := f.disp.Run(context.Background()); err == nil {
		t.Fatal("Run must fail when events cannot be loaded")
	}
	if len(f.ledger.rows) != 0 || len(f.mailer.sent) != 0 {
		t.Fatal("nothing may be processed when the event fetch fails")
	}
}

func TestEachOffsetDeliversIndependently(t *testing.T) {
	f := newFixture(t, time.Time{})
	f.source.profiles[f.user] = models.Profile{
		ID: f.user, FirstName: "Umut",
		Reminder2H: true, Reminder1D: true, Reminder2D: true,
		Reminder3D: true, Reminder1W: true,
	}

	eventStart := time.Date(2026, time.March, 10, 20, 0, 0, 0, time.UTC)
	totalSent := 0
	for _, spec := range models.OffsetTable {
		f.disp.now = func() time.Time { return eventStart.Add(-spec.Duration) }
		sum, err := f.disp.Run(context.Background())
		if err != nil {
			t.Fatalf("Run at %s: %v", spec.Key, err)
		}
		totalSent += sum.Sent
	}

	if totalSent != len(models.OffsetTable) {
		t.Fatalf("sent %d mails over all offsets, want %d", totalSent, len(models.OffsetTable))
	}
	if len(f.ledger.rows) != len(models.OffsetTable) {
		t.Fatalf("ledger rows = %d, want one per offset", len(f.ledger.rows))
	}
}
