package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/atempo-app/atempo-api/internal/domain/appointment"
	"github.com/atempo-app/atempo-api/internal/httperr"
	"github.com/atempo-app/atempo-api/internal/models"
	"github.com/atempo-app/atempo-api/internal/reminder"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Business / Employee
// --------------------------------------------------

func (r *AppointmentGormRepository) GetBusiness(
	ctx context.Context,
	id uuid.UUID,
) (*models.Business, error) {

	var biz models.Business
	if err := r.db.WithContext(ctx).
		First(&biz, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &biz, nil
}

func (r *AppointmentGormRepository) GetActiveEmployee(
	ctx context.Context,
	businessID uuid.UUID,
	employeeID uuid.UUID,
) (*models.Employee, error) {

	var emp models.Employee
	if err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ? AND active = ?", employeeID, businessID, true).
		First(&emp).Error; err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *AppointmentGormRepository) GetEmployee(
	ctx context.Context,
	businessID uuid.UUID,
	employeeID uuid.UUID,
) (*models.Employee, error) {

	var emp models.Employee
	if err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", employeeID, businessID).
		First(&emp).Error; err != nil {
		return nil, err
	}
	return &emp, nil
}

// --------------------------------------------------
// Overlap invariant
// --------------------------------------------------

// overlapQuery selecciona las citas del mismo encargado (owner = NULL) cuyo
// intervalo [start, end) se cruza con el propuesto, con lock de fila.
// Se proyecta el id en vez de agregar: Postgres no admite FOR UPDATE
// sobre consultas con agregados.
func overlapQuery(
	tx *gorm.DB,
	businessID uuid.UUID,
	employeeID *uuid.UUID,
	start time.Time,
	end time.Time,
	excludeID *uuid.UUID,
) *gorm.DB {

	q := tx.Model(&models.Appointment{}).
		Select("id").
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"business_id = ? AND employee_id IS NOT DISTINCT FROM ? AND start_at < ? AND end_at > ?",
			businessID, employeeID, end, start,
		)

	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	return q
}

// assertNoOverlap corre dentro de la transacción de escritura: el lock sobre
// las filas candidatas evita que dos requests concurrentes pasen ambos el
// chequeo.
func assertNoOverlap(
	tx *gorm.DB,
	businessID uuid.UUID,
	employeeID *uuid.UUID,
	start time.Time,
	end time.Time,
	excludeID *uuid.UUID,
) error {

	var rows []models.Appointment
	if err := overlapQuery(tx, businessID, employeeID, start, end, excludeID).
		Find(&rows).Error; err != nil {
		return err
	}
	if len(rows) > 0 {
		return httperr.ErrBusiness(httperr.CodeSlotConflict)
	}
	return nil
}

// --------------------------------------------------
// Appointment (write)
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := assertNoOverlap(
			tx, ap.BusinessID, ap.EmployeeID, ap.StartAt, ap.EndAt, nil,
		); err != nil {
			return err
		}
		return tx.Create(ap).Error
	})
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := assertNoOverlap(
			tx, ap.BusinessID, ap.EmployeeID, ap.StartAt, ap.EndAt, &ap.ID,
		); err != nil {
			return err
		}
		return persistAppointmentUpdate(tx, ap).Error
	})
}

// persistAppointmentUpdate guarda la fila sin tocar los contadores de
// recordatorio (pertenecen al scheduler) ni re-guardar la asociación
// Employee que viene precargada de la lectura.
func persistAppointmentUpdate(tx *gorm.DB, ap *models.Appointment) *gorm.DB {
	return tx.Omit(
		clause.Associations,
		"reminder_sent_count",
		"reminder_last_sent_at",
		"created_at",
	).Save(ap)
}

func (r *AppointmentGormRepository) DeleteAppointment(
	ctx context.Context,
	businessID uuid.UUID,
	id uuid.UUID,
) error {

	res := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", id, businessID).
		Delete(&models.Appointment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness(httperr.CodeNotFound)
	}
	return nil
}

// --------------------------------------------------
// Appointment (read)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	businessID uuid.UUID,
	id uuid.UUID,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("id = ? AND business_id = ?", id, businessID).
		First(&ap).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	businessID uuid.UUID,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("business_id = ?", businessID).
		Order("start_at ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

// --------------------------------------------------
// Reminder scan (scheduler)
// --------------------------------------------------

func (r *AppointmentGormRepository) ListReminderCandidates(
	ctx context.Context,
	now time.Time,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where(
			"has_reminder = ? AND client_email IS NOT NULL AND client_email <> '' AND start_at > ?",
			true, now,
		).
		Order("start_at ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

// MarkReminderSent incrementa el contador en SQL (no read-modify-write)
// y sella el instante del último envío. Son los únicos campos que el
// scheduler escribe.
func (r *AppointmentGormRepository) MarkReminderSent(
	ctx context.Context,
	id uuid.UUID,
	sentAt time.Time,
) error {

	return r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"reminder_sent_count":   gorm.Expr("reminder_sent_count + 1"),
			"reminder_last_sent_at": sentAt,
		}).Error
}

// Compile-time checks
var (
	_ domain.Repository = (*AppointmentGormRepository)(nil)
	_ reminder.Store    = (*AppointmentGormRepository)(nil)
)
