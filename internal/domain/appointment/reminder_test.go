package appointment

import (
	"testing"
	"time"

	"github.com/atempo-app/atempo-api/internal/models"
)

func reminderAppt(start time.Time) *models.Appointment {
	email := "cliente@example.com"
	lead := 24
	interval := 60
	count := 1
	return &models.Appointment{
		Title:                   "Corte",
		ClientEmail:             &email,
		StartAt:                 start,
		EndAt:                   start.Add(time.Hour),
		HasReminder:             true,
		ReminderLeadHours:       &lead,
		ReminderIntervalMinutes: &interval,
		ReminderMaxCount:        &count,
	}
}

func TestReminderDue_WindowBoundary(t *testing.T) {
	start := time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC)
	ap := reminderAppt(start)

	if ReminderDue(ap, start.Add(-25*time.Hour)) {
		t.Fatal("not due one hour before the window opens")
	}
	if !ReminderDue(ap, start.Add(-24*time.Hour)) {
		t.Fatal("due exactly when the window opens")
	}
}

func TestReminderDue_NeverAfterStart(t *testing.T) {
	start := time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC)
	ap := reminderAppt(start)

	if ReminderDue(ap, start) {
		t.Fatal("not due at start")
	}
	if ReminderDue(ap, start.Add(time.Minute)) {
		t.Fatal("not due after start")
	}
}

func TestReminderDue_Interval(t *testing.T) {
	start := time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC)
	ap := reminderAppt(start)
	max := 3
	ap.ReminderMaxCount = &max

	last := start.Add(-4 * time.Hour)
	ap.ReminderSentCount = 1
	ap.ReminderLastSentAt = &last

	if ReminderDue(ap, last.Add(30*time.Minute)) {
		t.Fatal("interval not elapsed yet")
	}
	if !ReminderDue(ap, last.Add(60*time.Minute)) {
		t.Fatal("due once the interval elapsed")
	}
}

func TestReminderDue_Exhausted(t *testing.T) {
	start := time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC)
	ap := reminderAppt(start)
	max := 2
	ap.ReminderMaxCount = &max
	ap.ReminderSentCount = 2
	last := start.Add(-3 * time.Hour)
	ap.ReminderLastSentAt = &last

	if ReminderDue(ap, start.Add(-time.Hour)) {
		t.Fatal("exhausted appointment must never fire again")
	}
}

func TestReminderDue_DormantCases(t *testing.T) {
	start := time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC)
	now := start.Add(-2 * time.Hour)

	ap := reminderAppt(start)
	ap.HasReminder = false
	if ReminderDue(ap, now) {
		t.Fatal("reminder disabled")
	}

	ap = reminderAppt(start)
	ap.ClientEmail = nil
	if ReminderDue(ap, now) {
		t.Fatal("no client email")
	}

	ap = reminderAppt(start)
	empty := ""
	ap.ClientEmail = &empty
	if ReminderDue(ap, now) {
		t.Fatal("empty client email")
	}
}

func TestReminderConfigDefaults(t *testing.T) {
	email := "cliente@example.com"
	ap := &models.Appointment{
		HasReminder: true,
		ClientEmail: &email,
		StartAt:     time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC),
	}

	cfg := ReminderConfigFor(ap)
	if cfg.LeadHours != DefaultReminderLeadHours {
		t.Fatalf("lead = %d", cfg.LeadHours)
	}
	if cfg.IntervalMinutes != DefaultReminderIntervalMinutes {
		t.Fatalf("interval = %d", cfg.IntervalMinutes)
	}
	if cfg.MaxCount != DefaultReminderMaxCount {
		t.Fatalf("max = %d", cfg.MaxCount)
	}

	// Legacy row with reminder enabled but no config still fires at -24h.
	if !ReminderDue(ap, ap.StartAt.Add(-24*time.Hour)) {
		t.Fatal("legacy row must use defaults")
	}
}
