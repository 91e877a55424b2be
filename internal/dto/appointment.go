package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/atempo-app/atempo-api/internal/models"
)

// AssigneeView es la proyección de lectura del encargado. Cuando la cita
// está asignada al dueño (columna NULL) se sintetiza desde su perfil.
type AssigneeView struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	PhotoURL  string    `json:"photo_url"`
	Active    bool      `json:"is_active"`
	IsOwner   bool      `json:"is_owner"`
}

type AppointmentResponse struct {
	ID         uuid.UUID    `json:"id"`
	BusinessID uuid.UUID    `json:"business_id"`
	EmployeeID uuid.UUID    `json:"employee_id"`
	Employee   AssigneeView `json:"employee"`

	Title       string  `json:"title"`
	ClientName  string  `json:"client_name"`
	ClientPhone string  `json:"client_phone"`
	ClientEmail *string `json:"client_email"`
	Note        string  `json:"note"`
	Color       string  `json:"color"`

	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`

	HasReminder             bool       `json:"has_reminder"`
	ReminderLeadHours       *int       `json:"reminder_lead_hours"`
	ReminderIntervalMinutes *int       `json:"reminder_interval_minutes"`
	ReminderMaxCount        *int       `json:"reminder_max_count"`
	ReminderSentCount       int        `json:"reminder_sent_count"`
	ReminderLastSentAt      *time.Time `json:"reminder_last_sent_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func OwnerAssigneeView(owner *models.Business) AssigneeView {
	return AssigneeView{
		ID:        owner.ID,
		FirstName: owner.OwnerFirstName,
		LastName:  owner.OwnerLastName,
		PhotoURL:  owner.LogoURL,
		Active:    true,
		IsOwner:   true,
	}
}

func EmployeeAssigneeView(emp *models.Employee) AssigneeView {
	return AssigneeView{
		ID:        emp.ID,
		FirstName: emp.FirstName,
		LastName:  emp.LastName,
		PhotoURL:  emp.PhotoURL,
		Active:    emp.Active,
	}
}

// FromAppointment arma la respuesta resolviendo la vista del encargado.
func FromAppointment(ap *models.Appointment, owner *models.Business) AppointmentResponse {
	var assignee AssigneeView
	if ap.EmployeeID == nil || ap.Employee == nil {
		assignee = OwnerAssigneeView(owner)
	} else {
		assignee = EmployeeAssigneeView(ap.Employee)
	}

	return AppointmentResponse{
		ID:         ap.ID,
		BusinessID: ap.BusinessID,
		EmployeeID: assignee.ID,
		Employee:   assignee,

		Title:       ap.Title,
		ClientName:  ap.ClientName,
		ClientPhone: ap.ClientPhone,
		ClientEmail: ap.ClientEmail,
		Note:        ap.Note,
		Color:       ap.Color,

		StartAt: ap.StartAt,
		EndAt:   ap.EndAt,

		HasReminder:             ap.HasReminder,
		ReminderLeadHours:       ap.ReminderLeadHours,
		ReminderIntervalMinutes: ap.ReminderIntervalMinutes,
		ReminderMaxCount:        ap.ReminderMaxCount,
		ReminderSentCount:       ap.ReminderSentCount,
		ReminderLastSentAt:      ap.ReminderLastSentAt,

		CreatedAt: ap.CreatedAt,
		UpdatedAt: ap.UpdatedAt,
	}
}
