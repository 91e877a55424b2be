package reminder

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/atempo-app/atempo-api/internal/mailer"
	"github.com/atempo-app/atempo-api/internal/models"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

type fakeStore struct {
	business     models.Business
	employees    map[uuid.UUID]models.Employee
	appointments []models.Appointment
}

func (f *fakeStore) ListReminderCandidates(_ context.Context, now time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.HasReminder && ap.ClientEmail != nil && *ap.ClientEmail != "" && ap.StartAt.After(now) {
			out = append(out, ap)
		}
	}
	return out, nil
}

func (f *fakeStore) GetBusiness(_ context.Context, id uuid.UUID) (*models.Business, error) {
	if id != f.business.ID {
		return nil, errors.New("business not found")
	}
	biz := f.business
	return &biz, nil
}

func (f *fakeStore) GetEmployee(_ context.Context, businessID, employeeID uuid.UUID) (*models.Employee, error) {
	emp, ok := f.employees[employeeID]
	if !ok || emp.BusinessID != businessID {
		return nil, errors.New("employee not found")
	}
	return &emp, nil
}

func (f *fakeStore) MarkReminderSent(_ context.Context, id uuid.UUID, sentAt time.Time) error {
	for i := range f.appointments {
		if f.appointments[i].ID == id {
			f.appointments[i].ReminderSentCount++
			t := sentAt
			f.appointments[i].ReminderLastSentAt = &t
			return nil
		}
	}
	return errors.New("appointment not found")
}

type fakeNotifier struct {
	mu         sync.Mutex
	client     []mailer.ReminderEmail
	staff      []mailer.StaffReminderEmail
	failClient map[string]error
}

func (f *fakeNotifier) SendReminderEmail(d mailer.ReminderEmail) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failClient[d.To]; ok {
		return err
	}
	f.client = append(f.client, d)
	return nil
}

func (f *fakeNotifier) SendStaffReminderEmail(d mailer.StaffReminderEmail) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.staff = append(f.staff, d)
	return nil
}

func newFixture(start time.Time) (*fakeStore, *models.Appointment) {
	store := &fakeStore{
		business: models.Business{
			ID:             uuid.New(),
			Name:           "Estética Luna",
			OwnerFirstName: "María",
			OwnerLastName:  "López",
			Email:          "duena@example.com",
		},
		employees: map[uuid.UUID]models.Employee{},
	}

	email := "cliente@example.com"
	lead := 24
	interval := 60
	max := 1
	ap := models.Appointment{
		ID:                      uuid.New(),
		BusinessID:              store.business.ID,
		Title:                   "Corte de cabello",
		ClientName:              "Ana",
		ClientEmail:             &email,
		StartAt:                 start,
		EndAt:                   start.Add(time.Hour),
		HasReminder:             true,
		ReminderLeadHours:       &lead,
		ReminderIntervalMinutes: &interval,
		ReminderMaxCount:        &max,
	}
	store.appointments = append(store.appointments, ap)
	return store, &store.appointments[0]
}

func newTestScheduler(store Store, notifier Notifier, clock Clock) *Scheduler {
	logger := slog.New(slog.NewTextHandler(testWriter{}, &slog.HandlerOptions{Level: slog.LevelError}))
	return New(store, notifier, logger, Config{
		Interval: time.Minute,
		Timezone: "America/Mexico_City",
		Clock:    clock,
	})
}

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestTick_NotDueBeforeWindow(t *testing.T) {
	start := time.Date(2026, 5, 4, 16, 0, 0, 0, time.UTC)
	store, _ := newFixture(start)
	notifier := &fakeNotifier{}

	// lead de 24h: a falta de 25h la ventana todavía no abre.
	clock := &fakeClock{now: start.Add(-25 * time.Hour)}
	s := newTestScheduler(store, notifier, clock)

	if err := s.Tick(context.Background()); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if len(notifier.client) != 0 {
		t.Fatal("nothing is due one hour before the window opens")
	}
	if store.appointments[0].ReminderSentCount != 0 {
		t.Fatal("counter must stay at zero")
	}
}

func TestTick_SendsAtWindowOpen(t *testing.T) {
	start := time.Date(2026, 5, 4, 16, 0, 0, 0, time.UTC)
	store, _ := newFixture(start)
	notifier := &fakeNotifier{}
	now := start.Add(-24 * time.Hour)
	s := newTestScheduler(store, notifier, &fakeClock{now: now})

	if err := s.Tick(context.Background()); err != nil {
		t.Fatalf("tick: %v", err)
	}

	if len(notifier.client) != 1 {
		t.Fatalf("client emails = %d", len(notifier.client))
	}
	got := notifier.client[0]
	if got.To != "cliente@example.com" || got.Service != "Corte de cabello" {
		t.Fatalf("email = %+v", got)
	}
	if got.BusinessName != "Estética Luna" {
		t.Fatalf("business name = %q", got.BusinessName)
	}

	if store.appointments[0].ReminderSentCount != 1 {
		t.Fatalf("sent count = %d", store.appointments[0].ReminderSentCount)
	}
	if store.appointments[0].ReminderLastSentAt == nil ||
		!store.appointments[0].ReminderLastSentAt.Equal(now) {
		t.Fatal("last sent at must equal tick time")
	}

	// Con max=1, un segundo tick posterior no envía nada más.
	s2 := newTestScheduler(store, notifier, &fakeClock{now: now.Add(2 * time.Hour)})
	if err := s2.Tick(context.Background()); err != nil {
		t.Fatalf("second tick: %v", err)
	}
	if len(notifier.client) != 1 {
		t.Fatal("exhausted appointment must not fire again")
	}
}

func TestTick_IntervalBetweenSends(t *testing.T) {
	start := time.Date(2026, 5, 4, 16, 0, 0, 0, time.UTC)
	store, _ := newFixture(start)
	max := 2
	store.appointments[0].ReminderMaxCount = &max
	notifier := &fakeNotifier{}

	first := start.Add(-24 * time.Hour)
	if err := newTestScheduler(store, notifier, &fakeClock{now: first}).Tick(context.Background()); err != nil {
		t.Fatalf("first tick: %v", err)
	}

	// 30 minutos después: intervalo de 60 no cumplido.
	if err := newTestScheduler(store, notifier, &fakeClock{now: first.Add(30 * time.Minute)}).Tick(context.Background()); err != nil {
		t.Fatalf("early tick: %v", err)
	}
	if len(notifier.client) != 1 {
		t.Fatal("interval not elapsed, must not resend")
	}

	// 60 minutos después: segundo envío.
	if err := newTestScheduler(store, notifier, &fakeClock{now: first.Add(60 * time.Minute)}).Tick(context.Background()); err != nil {
		t.Fatalf("second tick: %v", err)
	}
	if len(notifier.client) != 2 {
		t.Fatalf("client emails = %d", len(notifier.client))
	}
	if store.appointments[0].ReminderSentCount != 2 {
		t.Fatalf("sent count = %d", store.appointments[0].ReminderSentCount)
	}
}

func TestTick_FailureIsolatedPerAppointment(t *testing.T) {
	start := time.Date(2026, 5, 4, 16, 0, 0, 0, time.UTC)
	store, _ := newFixture(start)

	otherEmail := "otro@example.com"
	lead := 24
	max := 1
	store.appointments = append(store.appointments, models.Appointment{
		ID:                uuid.New(),
		BusinessID:        store.business.ID,
		Title:             "Tinte",
		ClientName:        "Luis",
		ClientEmail:       &otherEmail,
		StartAt:           start,
		EndAt:             start.Add(time.Hour),
		HasReminder:       true,
		ReminderLeadHours: &lead,
		ReminderMaxCount:  &max,
	})

	notifier := &fakeNotifier{
		failClient: map[string]error{"cliente@example.com": errors.New("smtp down")},
	}
	s := newTestScheduler(store, notifier, &fakeClock{now: start.Add(-24 * time.Hour)})

	if err := s.Tick(context.Background()); err != nil {
		t.Fatalf("tick must not fail as a whole: %v", err)
	}

	if len(notifier.client) != 1 || notifier.client[0].To != otherEmail {
		t.Fatal("second appointment must still be processed")
	}
	if store.appointments[0].ReminderSentCount != 0 {
		t.Fatal("failed send must not advance the counter")
	}
	if store.appointments[1].ReminderSentCount != 1 {
		t.Fatal("successful send must advance the counter")
	}
}

func TestTick_StaffNotificationFallsBackToOwner(t *testing.T) {
	start := time.Date(2026, 5, 4, 16, 0, 0, 0, time.UTC)
	store, _ := newFixture(start)
	notifier := &fakeNotifier{}
	s := newTestScheduler(store, notifier, &fakeClock{now: start.Add(-24 * time.Hour)})

	// Cita del dueño (employee_id NULL): el aviso interno va al dueño.
	if err := s.Tick(context.Background()); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if len(notifier.staff) != 1 || notifier.staff[0].To != "duena@example.com" {
		t.Fatalf("staff notification = %+v", notifier.staff)
	}
}

func TestTick_StaffNotificationUsesEmployeeEmail(t *testing.T) {
	start := time.Date(2026, 5, 4, 16, 0, 0, 0, time.UTC)
	store, _ := newFixture(start)

	emp := models.Employee{
		ID:         uuid.New(),
		BusinessID: store.business.ID,
		FirstName:  "Pedro",
		LastName:   "García",
		Email:      "pedro@example.com",
		Active:     true,
	}
	store.employees[emp.ID] = emp
	empID := emp.ID
	store.appointments[0].EmployeeID = &empID

	notifier := &fakeNotifier{}
	s := newTestScheduler(store, notifier, &fakeClock{now: start.Add(-24 * time.Hour)})

	if err := s.Tick(context.Background()); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if len(notifier.staff) != 1 || notifier.staff[0].To != "pedro@example.com" {
		t.Fatalf("staff notification = %+v", notifier.staff)
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	start := time.Date(2026, 5, 4, 16, 0, 0, 0, time.UTC)
	store, _ := newFixture(start)
	s := newTestScheduler(store, &fakeNotifier{}, &fakeClock{now: start})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run must return when the context is cancelled")
	}
}
