package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/atempo-app/atempo-api/internal/domain/appointment"
	"github.com/atempo-app/atempo-api/internal/mailer"
	"github.com/atempo-app/atempo-api/internal/models"
	"github.com/atempo-app/atempo-api/internal/timezone"
)

// Store es lo que el scheduler necesita del repositorio de citas.
// Solo escribe los contadores de recordatorio, nunca los campos de la cita.
type Store interface {
	ListReminderCandidates(ctx context.Context, now time.Time) ([]models.Appointment, error)
	GetBusiness(ctx context.Context, id uuid.UUID) (*models.Business, error)
	GetEmployee(ctx context.Context, businessID, employeeID uuid.UUID) (*models.Employee, error)
	MarkReminderSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error
}

// Notifier es el contrato estrecho hacia la pasarela de correo.
type Notifier interface {
	SendReminderEmail(d mailer.ReminderEmail) error
	SendStaffReminderEmail(d mailer.StaffReminderEmail) error
}

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

type Config struct {
	Interval time.Duration
	Timezone string
	Clock    Clock
}

// Scheduler es el proceso singleton de recordatorios: un tick cada Interval
// escanea las citas candidatas y despacha los correos que tocan.
type Scheduler struct {
	store    Store
	notifier Notifier
	logger   *slog.Logger
	interval time.Duration
	clock    Clock
	loc      *time.Location
}

func New(store Store, notifier Notifier, logger *slog.Logger, cfg Config) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = 60 * time.Second
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	return &Scheduler{
		store:    store,
		notifier: notifier,
		logger:   logger,
		interval: cfg.Interval,
		clock:    cfg.Clock,
		loc:      timezone.Location(cfg.Timezone),
	}
}

// Run bloquea hasta que el contexto se cancele. Se arranca una sola vez
// desde main; los ticks quedan serializados por el ticker.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("reminder scheduler started", "interval", s.interval.String())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reminder scheduler stopped")
			return
		case <-ticker.C:
			if err := s.Tick(ctx); err != nil {
				s.logger.Error("reminder tick failed", "err", err)
			}
		}
	}
}

// Tick procesa un barrido completo. El fallo de una cita no corta el resto:
// se registra y se sigue con la siguiente.
func (s *Scheduler) Tick(ctx context.Context) error {
	now := s.clock.Now()

	candidates, err := s.store.ListReminderCandidates(ctx, now)
	if err != nil {
		return err
	}

	businesses := make(map[uuid.UUID]*models.Business)
	var wg sync.WaitGroup

	for i := range candidates {
		ap := &candidates[i]

		if !domain.ReminderDue(ap, now) {
			continue
		}

		biz, ok := businesses[ap.BusinessID]
		if !ok {
			biz, err = s.store.GetBusiness(ctx, ap.BusinessID)
			if err != nil {
				s.logger.Error("reminder business lookup failed",
					"appointment_id", ap.ID, "err", err)
				continue
			}
			businesses[ap.BusinessID] = biz
		}

		cfg := domain.ReminderConfigFor(ap)
		s.logger.Info("sending reminder",
			"appointment_id", ap.ID,
			"attempt", fmt.Sprintf("%d/%d", ap.ReminderSentCount+1, cfg.MaxCount),
		)

		startLocal := ap.StartAt.In(s.loc)
		dateStr := formatSpanishDate(startLocal)
		hourStr := startLocal.Format("15:04")

		if err := s.notifier.SendReminderEmail(mailer.ReminderEmail{
			To:           *ap.ClientEmail,
			ClientName:   ap.ClientName,
			Service:      ap.Title,
			Date:         dateStr,
			Hour:         hourStr,
			BusinessName: biz.Name,
		}); err != nil {
			s.logger.Error("reminder email failed",
				"appointment_id", ap.ID, "err", err)
			continue
		}

		// Aviso al encargado en paralelo; su fallo no afecta el tick.
		staffEmail, staffName := s.staffRecipient(ctx, ap, biz)
		if staffEmail != "" {
			wg.Add(1)
			go func(ap *models.Appointment) {
				defer wg.Done()
				if err := s.notifier.SendStaffReminderEmail(mailer.StaffReminderEmail{
					To:           staffEmail,
					StaffName:    staffName,
					Service:      ap.Title,
					ClientName:   ap.ClientName,
					Date:         dateStr,
					Hour:         hourStr,
					BusinessName: biz.Name,
				}); err != nil {
					s.logger.Warn("staff reminder email failed",
						"appointment_id", ap.ID, "err", err)
				}
			}(ap)
		}

		if err := s.store.MarkReminderSent(ctx, ap.ID, now); err != nil {
			s.logger.Error("reminder counter update failed",
				"appointment_id", ap.ID, "err", err)
		}
	}

	wg.Wait()
	return nil
}

// staffRecipient resuelve el correo del encargado; si la cita es del dueño
// o el empleado no tiene correo, cae al dueño del negocio.
func (s *Scheduler) staffRecipient(
	ctx context.Context,
	ap *models.Appointment,
	biz *models.Business,
) (email, name string) {

	if ap.EmployeeID != nil {
		emp, err := s.store.GetEmployee(ctx, ap.BusinessID, *ap.EmployeeID)
		if err == nil && emp.Email != "" {
			return emp.Email, emp.FirstName + " " + emp.LastName
		}
	}
	return biz.Email, biz.OwnerFirstName + " " + biz.OwnerLastName
}

var spanishWeekdays = [...]string{
	"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado",
}

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

func formatSpanishDate(t time.Time) string {
	return fmt.Sprintf("%s %d de %s",
		spanishWeekdays[int(t.Weekday())],
		t.Day(),
		spanishMonths[int(t.Month())-1],
	)
}
