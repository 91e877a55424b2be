package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atempo-app/atempo-api/internal/audit"
	domain "github.com/atempo-app/atempo-api/internal/domain/appointment"
	"github.com/atempo-app/atempo-api/internal/httperr"
	"github.com/atempo-app/atempo-api/internal/permissions"
	"github.com/atempo-app/atempo-api/internal/principal"
)

type DeleteAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeleteAppointment {
	return &DeleteAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	p principal.Principal,
	id uuid.UUID,
) error {

	tenantID := p.TenantID()

	if _, err := uc.repo.GetAppointment(ctx, tenantID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.ErrBusinessMsg(httperr.CodeNotFound, "Cita no encontrada.")
		}
		return err
	}

	if !p.Can(permissions.ModuleAppointments, permissions.ActionDelete) {
		return httperr.ErrBusinessMsg(
			httperr.CodeForbidden, "No tienes permiso para eliminar citas.")
	}

	if err := uc.repo.DeleteAppointment(ctx, tenantID, id); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: tenantID,
		ActorID:    &p.ID,
		Action:     "appointment_deleted",
		Entity:     "appointment",
		EntityID:   &id,
	})

	return nil
}
