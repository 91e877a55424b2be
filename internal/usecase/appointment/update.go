package appointment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atempo-app/atempo-api/internal/audit"
	domain "github.com/atempo-app/atempo-api/internal/domain/appointment"
	"github.com/atempo-app/atempo-api/internal/httperr"
	"github.com/atempo-app/atempo-api/internal/models"
	"github.com/atempo-app/atempo-api/internal/permissions"
	"github.com/atempo-app/atempo-api/internal/principal"
)

// ======================================================
// INPUT
// ======================================================

// Campos en nil se dejan como están. ClientEmail con cadena vacía
// limpia el correo (pasa a NULL), igual que el contrato histórico.
type UpdateAppointmentInput struct {
	Title      *string
	EmployeeID *uuid.UUID

	ClientName  *string
	ClientPhone *string
	ClientEmail *string

	Note  *string
	Color *string

	StartAt *time.Time
	EndAt   *time.Time

	HasReminder             *bool
	ReminderLeadHours       *int
	ReminderIntervalMinutes *int
	ReminderMaxCount        *int
}

// ======================================================
// USE CASE
// ======================================================

type UpdateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:  repo,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	p principal.Principal,
	id uuid.UUID,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	tenantID := p.TenantID()

	ap, err := uc.repo.GetAppointment(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusinessMsg(httperr.CodeNotFound, "Cita no encontrada.")
		}
		return nil, err
	}

	if !p.Can(permissions.ModuleAppointments, permissions.ActionEdit) {
		return nil, httperr.ErrBusinessMsg(
			httperr.CodeForbidden, "No tienes permiso para editar citas.")
	}

	// --------------------------------------------------
	// Merge de campos parciales sobre la fila existente
	// --------------------------------------------------

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, httperr.ErrBusinessMsg(
				httperr.CodeValidation, "Título/servicio requerido.")
		}
		ap.Title = title
	}
	if in.ClientName != nil {
		ap.ClientName = *in.ClientName
	}
	if in.ClientPhone != nil {
		if err := validateClientPhone(*in.ClientPhone); err != nil {
			return nil, err
		}
		ap.ClientPhone = *in.ClientPhone
	}
	if in.ClientEmail != nil {
		email := normalizeEmail(in.ClientEmail)
		if err := validateClientEmail(email); err != nil {
			return nil, err
		}
		ap.ClientEmail = email
	}
	if in.Note != nil {
		ap.Note = *in.Note
	}
	if in.Color != nil {
		if err := validateColor(*in.Color); err != nil {
			return nil, err
		}
		ap.Color = *in.Color
	}
	if in.StartAt != nil {
		ap.StartAt = *in.StartAt
	}
	if in.EndAt != nil {
		ap.EndAt = *in.EndAt
	}
	if in.HasReminder != nil {
		ap.HasReminder = *in.HasReminder
	}
	if in.ReminderLeadHours != nil {
		ap.ReminderLeadHours = in.ReminderLeadHours
	}
	if in.ReminderIntervalMinutes != nil {
		ap.ReminderIntervalMinutes = in.ReminderIntervalMinutes
	}
	if in.ReminderMaxCount != nil {
		ap.ReminderMaxCount = in.ReminderMaxCount
	}

	// --------------------------------------------------
	// Revalidación sobre el estado ya mezclado
	// --------------------------------------------------

	if !ap.StartAt.Before(ap.EndAt) {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidTimeRange)
	}

	if err := validateReminderConfig(
		in.ReminderLeadHours, in.ReminderIntervalMinutes, in.ReminderMaxCount,
	); err != nil {
		return nil, err
	}

	if ap.HasReminder && !hasContact(ap.ClientEmail, ap.ClientPhone) {
		return nil, httperr.ErrBusiness(httperr.CodeReminderRequiresContact)
	}

	// El encargado solo cambia si vino en el parcial.
	if in.EmployeeID != nil {
		assignee, err := resolveAssignee(ctx, uc.repo, tenantID, *in.EmployeeID)
		if err != nil {
			return nil, err
		}
		ap.EmployeeID = assignee.Column()
		ap.Employee = nil
	}

	// Los contadores de recordatorio no se tocan: UpdateAppointment
	// los omite en el commit.
	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		if httperr.IsBusiness(err, httperr.CodeSlotConflict) {
			uc.audit.Dispatch(audit.Event{
				BusinessID: tenantID,
				ActorID:    &p.ID,
				Action:     "appointment_conflict",
				Entity:     "appointment",
				EntityID:   &ap.ID,
				Metadata: map[string]any{
					"start": ap.StartAt,
					"end":   ap.EndAt,
				},
			})
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: tenantID,
		ActorID:    &p.ID,
		Action:     "appointment_updated",
		Entity:     "appointment",
		EntityID:   &ap.ID,
	})

	return ap, nil
}
