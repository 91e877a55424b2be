package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/atempo-app/atempo-api/internal/domain/appointment"
	"github.com/atempo-app/atempo-api/internal/audit"
	"github.com/atempo-app/atempo-api/internal/httperr"
	"github.com/atempo-app/atempo-api/internal/models"
)

// fakeRepo reproduce en memoria el invariante de solapamiento del store real.
type fakeRepo struct {
	business     models.Business
	employees    []models.Employee
	appointments []models.Appointment
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		business: models.Business{
			ID:             uuid.New(),
			Name:           "Estética Luna",
			OwnerFirstName: "María",
			OwnerLastName:  "López",
			Email:          "duena@example.com",
		},
	}
}

func (f *fakeRepo) addEmployee(active bool) models.Employee {
	emp := models.Employee{
		ID:         uuid.New(),
		BusinessID: f.business.ID,
		FirstName:  "Empleado",
		LastName:   "Prueba",
		Email:      "empleado@example.com",
		Active:     active,
	}
	f.employees = append(f.employees, emp)
	return emp
}

func (f *fakeRepo) GetBusiness(_ context.Context, id uuid.UUID) (*models.Business, error) {
	if id != f.business.ID {
		return nil, gorm.ErrRecordNotFound
	}
	biz := f.business
	return &biz, nil
}

func (f *fakeRepo) GetActiveEmployee(_ context.Context, businessID, employeeID uuid.UUID) (*models.Employee, error) {
	for _, e := range f.employees {
		if e.ID == employeeID && e.BusinessID == businessID && e.Active {
			emp := e
			return &emp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func sameAssignee(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (f *fakeRepo) hasOverlap(ap *models.Appointment, exclude *uuid.UUID) bool {
	for _, other := range f.appointments {
		if exclude != nil && other.ID == *exclude {
			continue
		}
		if other.BusinessID != ap.BusinessID || !sameAssignee(other.EmployeeID, ap.EmployeeID) {
			continue
		}
		if other.StartAt.Before(ap.EndAt) && other.EndAt.After(ap.StartAt) {
			return true
		}
	}
	return false
}

func (f *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	if f.hasOverlap(ap, nil) {
		return httperr.ErrBusiness(httperr.CodeSlotConflict)
	}
	if ap.ID == uuid.Nil {
		ap.ID = uuid.New()
	}
	f.appointments = append(f.appointments, *ap)
	return nil
}

func (f *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	if f.hasOverlap(ap, &ap.ID) {
		return httperr.ErrBusiness(httperr.CodeSlotConflict)
	}
	for i := range f.appointments {
		if f.appointments[i].ID == ap.ID {
			// Los contadores quedan fuera del commit, como en el store real.
			kept := f.appointments[i]
			f.appointments[i] = *ap
			f.appointments[i].ReminderSentCount = kept.ReminderSentCount
			f.appointments[i].ReminderLastSentAt = kept.ReminderLastSentAt
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeRepo) DeleteAppointment(_ context.Context, businessID, id uuid.UUID) error {
	for i := range f.appointments {
		if f.appointments[i].ID == id && f.appointments[i].BusinessID == businessID {
			f.appointments = append(f.appointments[:i], f.appointments[i+1:]...)
			return nil
		}
	}
	return httperr.ErrBusiness(httperr.CodeNotFound)
}

func (f *fakeRepo) GetAppointment(_ context.Context, businessID, id uuid.UUID) (*models.Appointment, error) {
	for _, ap := range f.appointments {
		if ap.ID == id && ap.BusinessID == businessID {
			out := ap
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) ListAppointments(_ context.Context, businessID uuid.UUID) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.BusinessID == businessID {
			out = append(out, ap)
		}
	}
	return out, nil
}

var _ domain.Repository = (*fakeRepo)(nil)

func testDispatcher() *audit.Dispatcher {
	return audit.NewNopDispatcher()
}

func at(hour, min int) time.Time {
	return time.Date(2026, 4, 20, hour, min, 0, 0, time.UTC)
}
