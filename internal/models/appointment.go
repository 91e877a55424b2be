package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Appointment es una cita puntual (sin series recurrentes).
// EmployeeID en NULL significa que la atiende el dueño del negocio.
// Los campos del cliente van desnormalizados a propósito: la libreta de
// clientes frecuentes es solo autocompletado, no una relación.
type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	BusinessID uuid.UUID  `gorm:"type:uuid;not null;index:idx_appointments_assignee,priority:1" json:"business_id"`
	EmployeeID *uuid.UUID `gorm:"type:uuid;index:idx_appointments_assignee,priority:2" json:"employee_id"`
	Employee   *Employee  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"employee,omitempty"`

	Title string `gorm:"size:200;not null" json:"title"`

	ClientName  string  `gorm:"size:100" json:"client_name"`
	ClientPhone string  `gorm:"size:20" json:"client_phone"`
	ClientEmail *string `gorm:"size:100" json:"client_email"`

	Note  string `gorm:"size:1000" json:"note"`
	Color string `gorm:"size:7" json:"color"`

	StartAt time.Time `gorm:"not null;index" json:"start_at"`
	EndAt   time.Time `gorm:"not null" json:"end_at"`

	HasReminder             bool `gorm:"default:false" json:"has_reminder"`
	ReminderLeadHours       *int `json:"reminder_lead_hours"`
	ReminderIntervalMinutes *int `json:"reminder_interval_minutes"`
	ReminderMaxCount        *int `json:"reminder_max_count"`

	// Solo el scheduler escribe estos dos campos.
	ReminderSentCount  int        `gorm:"default:0" json:"reminder_sent_count"`
	ReminderLastSentAt *time.Time `json:"reminder_last_sent_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
