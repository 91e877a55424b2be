package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/atempo-app/atempo-api/internal/domain/appointment"
	"github.com/atempo-app/atempo-api/internal/dto"
	"github.com/atempo-app/atempo-api/internal/httperr"
	"github.com/atempo-app/atempo-api/internal/principal"
)

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	p principal.Principal,
) ([]dto.AppointmentResponse, error) {

	tenantID := p.TenantID()

	aps, err := uc.repo.ListAppointments(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	owner, err := uc.repo.GetBusiness(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentResponse, 0, len(aps))
	for i := range aps {
		out = append(out, dto.FromAppointment(&aps[i], owner))
	}
	return out, nil
}

type GetAppointment struct {
	repo domain.Repository
}

func NewGetAppointment(repo domain.Repository) *GetAppointment {
	return &GetAppointment{repo: repo}
}

func (uc *GetAppointment) Execute(
	ctx context.Context,
	p principal.Principal,
	id uuid.UUID,
) (*dto.AppointmentResponse, error) {

	tenantID := p.TenantID()

	ap, err := uc.repo.GetAppointment(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusinessMsg(httperr.CodeNotFound, "Cita no encontrada.")
		}
		return nil, err
	}

	owner, err := uc.repo.GetBusiness(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	resp := dto.FromAppointment(ap, owner)
	return &resp, nil
}
