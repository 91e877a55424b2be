package appointment

import (
	"time"

	"github.com/atempo-app/atempo-api/internal/models"
)

// Defaults defensivos para filas antiguas que activaron el recordatorio
// antes de que la validación exigiera la configuración completa.
const (
	DefaultReminderLeadHours       = 24
	DefaultReminderIntervalMinutes = 60
	DefaultReminderMaxCount        = 1
)

// Límites aceptados al crear o editar una cita con recordatorio.
const (
	MinReminderLeadHours       = 1
	MaxReminderLeadHours       = 72
	MinReminderIntervalMinutes = 30
	MinReminderMaxCount        = 1
	MaxReminderMaxCount        = 3
)

type ReminderConfig struct {
	LeadHours       int
	IntervalMinutes int
	MaxCount        int
}

// ReminderConfigFor aplica los defaults sobre los campos opcionales.
func ReminderConfigFor(ap *models.Appointment) ReminderConfig {
	cfg := ReminderConfig{
		LeadHours:       DefaultReminderLeadHours,
		IntervalMinutes: DefaultReminderIntervalMinutes,
		MaxCount:        DefaultReminderMaxCount,
	}
	if ap.ReminderLeadHours != nil && *ap.ReminderLeadHours > 0 {
		cfg.LeadHours = *ap.ReminderLeadHours
	}
	if ap.ReminderIntervalMinutes != nil && *ap.ReminderIntervalMinutes > 0 {
		cfg.IntervalMinutes = *ap.ReminderIntervalMinutes
	}
	if ap.ReminderMaxCount != nil && *ap.ReminderMaxCount > 0 {
		cfg.MaxCount = *ap.ReminderMaxCount
	}
	return cfg
}

// ReminderDue decide si la cita debe recibir un recordatorio en este instante.
//
// Nunca se envía para citas ya iniciadas o pasadas. El primer envío ocurre
// al abrirse la ventana (start − lead); los siguientes respetan el intervalo
// desde el último envío hasta agotar el máximo.
func ReminderDue(ap *models.Appointment, now time.Time) bool {
	if !ap.HasReminder {
		return false
	}
	if ap.ClientEmail == nil || *ap.ClientEmail == "" {
		return false
	}
	if !now.Before(ap.StartAt) {
		return false
	}

	cfg := ReminderConfigFor(ap)
	if ap.ReminderSentCount >= cfg.MaxCount {
		return false
	}

	windowOpen := ap.StartAt.Add(-time.Duration(cfg.LeadHours) * time.Hour)
	if now.Before(windowOpen) {
		return false
	}

	if ap.ReminderSentCount == 0 {
		return true
	}
	if ap.ReminderLastSentAt == nil {
		return false
	}
	nextSend := ap.ReminderLastSentAt.Add(time.Duration(cfg.IntervalMinutes) * time.Minute)
	return !now.Before(nextSend)
}
