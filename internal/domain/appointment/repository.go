package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/atempo-app/atempo-api/internal/models"
)

// Repository es el contrato del store de citas. Las escrituras corren la
// verificación de solapamiento y el commit dentro de una misma transacción;
// en conflicto devuelven httperr.CodeSlotConflict sin escribir nada.
type Repository interface {
	// -------- Business / Employee --------
	GetBusiness(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Business, error)

	GetActiveEmployee(
		ctx context.Context,
		businessID uuid.UUID,
		employeeID uuid.UUID,
	) (*models.Employee, error)

	// -------- Appointment (write, atomic vs overlap) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	DeleteAppointment(
		ctx context.Context,
		businessID uuid.UUID,
		id uuid.UUID,
	) error

	// -------- Appointment (read) --------
	GetAppointment(
		ctx context.Context,
		businessID uuid.UUID,
		id uuid.UUID,
	) (*models.Appointment, error)

	ListAppointments(
		ctx context.Context,
		businessID uuid.UUID,
	) ([]models.Appointment, error)
}
