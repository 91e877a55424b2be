package appointment

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"

	domain "github.com/atempo-app/atempo-api/internal/domain/appointment"
	"github.com/atempo-app/atempo-api/internal/httperr"
	"github.com/atempo-app/atempo-api/internal/validators"
)

var (
	colorRe = regexp.MustCompile(`^#([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)
	phoneRe = regexp.MustCompile(`^\d{10}$`)
)

// resolveAssignee aplica la regla del dueño: el id del propio negocio es el
// sentinel "me atiende el dueño" y se normaliza a la variante Owner. Cualquier
// otro id debe ser un empleado activo del negocio.
func resolveAssignee(
	ctx context.Context,
	repo domain.Repository,
	tenantID uuid.UUID,
	employeeID uuid.UUID,
) (domain.Assignee, error) {

	if employeeID == tenantID {
		return domain.OwnerAssignee(), nil
	}

	emp, err := repo.GetActiveEmployee(ctx, tenantID, employeeID)
	if err != nil {
		return domain.Assignee{}, httperr.ErrBusiness(httperr.CodeInvalidAssignee)
	}
	return domain.StaffAssignee(emp.ID), nil
}

func validateColor(color string) error {
	if color != "" && !colorRe.MatchString(color) {
		return httperr.ErrBusinessMsg(httperr.CodeValidation, "Color inválido.")
	}
	return nil
}

func validateClientPhone(phone string) error {
	if phone != "" && !phoneRe.MatchString(phone) {
		return httperr.ErrBusinessMsg(httperr.CodeValidation, "Celular inválido (10 dígitos).")
	}
	return nil
}

func validateReminderConfig(lead, interval, max *int) error {
	if lead != nil && (*lead < domain.MinReminderLeadHours || *lead > domain.MaxReminderLeadHours) {
		return httperr.ErrBusinessMsg(httperr.CodeValidation, "Anticipación de recordatorio fuera de rango (1 a 72 horas).")
	}
	if interval != nil && *interval < domain.MinReminderIntervalMinutes {
		return httperr.ErrBusinessMsg(httperr.CodeValidation, "Intervalo de recordatorio mínimo: 30 minutos.")
	}
	if max != nil && (*max < domain.MinReminderMaxCount || *max > domain.MaxReminderMaxCount) {
		return httperr.ErrBusinessMsg(httperr.CodeValidation, "Cantidad de recordatorios fuera de rango (1 a 3).")
	}
	return nil
}

// validateClientEmail valida la sintaxis del correo ya normalizado.
// Nil (sin correo) pasa; el chequeo de dominio queda para el registro.
func validateClientEmail(email *string) error {
	if email != nil && !validators.IsEmailFormatValid(*email) {
		return httperr.ErrBusinessMsg(httperr.CodeValidation, "Correo del cliente inválido.")
	}
	return nil
}

// normalizeEmail recorta y pasa a minúsculas; vacío se guarda como NULL.
func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	e := strings.ToLower(strings.TrimSpace(*email))
	if e == "" {
		return nil
	}
	return &e
}

func hasContact(email *string, phone string) bool {
	return email != nil && *email != "" && phone != ""
}
