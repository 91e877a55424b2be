package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

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

type CreateAppointmentInput struct {
	Title      string
	EmployeeID uuid.UUID

	ClientName  string
	ClientPhone string
	ClientEmail *string

	Note  string
	Color string

	StartAt time.Time
	EndAt   time.Time

	HasReminder             bool
	ReminderLeadHours       *int
	ReminderIntervalMinutes *int
	ReminderMaxCount        *int
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	p principal.Principal,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	tenantID := p.TenantID()

	if !p.Can(permissions.ModuleAppointments, permissions.ActionCreate) {
		return nil, httperr.ErrBusinessMsg(
			httperr.CodeForbidden, "No tienes permiso para crear citas.")
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, httperr.ErrBusinessMsg(
			httperr.CodeValidation, "Título/servicio requerido.")
	}

	if !in.StartAt.Before(in.EndAt) {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidTimeRange)
	}

	if err := validateColor(in.Color); err != nil {
		return nil, err
	}
	if err := validateClientPhone(in.ClientPhone); err != nil {
		return nil, err
	}
	if err := validateReminderConfig(
		in.ReminderLeadHours, in.ReminderIntervalMinutes, in.ReminderMaxCount,
	); err != nil {
		return nil, err
	}

	clientEmail := normalizeEmail(in.ClientEmail)
	if err := validateClientEmail(clientEmail); err != nil {
		return nil, err
	}
	if in.HasReminder && !hasContact(clientEmail, in.ClientPhone) {
		return nil, httperr.ErrBusiness(httperr.CodeReminderRequiresContact)
	}

	assignee, err := resolveAssignee(ctx, uc.repo, tenantID, in.EmployeeID)
	if err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		BusinessID: tenantID,
		EmployeeID: assignee.Column(),

		Title:       title,
		ClientName:  in.ClientName,
		ClientPhone: in.ClientPhone,
		ClientEmail: clientEmail,
		Note:        in.Note,
		Color:       in.Color,

		StartAt: in.StartAt,
		EndAt:   in.EndAt,

		HasReminder:             in.HasReminder,
		ReminderLeadHours:       in.ReminderLeadHours,
		ReminderIntervalMinutes: in.ReminderIntervalMinutes,
		ReminderMaxCount:        in.ReminderMaxCount,

		ReminderSentCount:  0,
		ReminderLastSentAt: nil,
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		if httperr.IsBusiness(err, httperr.CodeSlotConflict) {
			uc.audit.Dispatch(audit.Event{
				BusinessID: tenantID,
				ActorID:    &p.ID,
				Action:     "appointment_conflict",
				Entity:     "appointment",
				Metadata: map[string]any{
					"start": in.StartAt,
					"end":   in.EndAt,
				},
			})
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: tenantID,
		ActorID:    &p.ID,
		Action:     "appointment_created",
		Entity:     "appointment",
		EntityID:   &ap.ID,
	})

	return ap, nil
}
