package principal

import (
	"github.com/google/uuid"

	"github.com/atempo-app/atempo-api/internal/permissions"
)

type Role string

const (
	RoleOwner Role = "owner"
	RoleStaff Role = "staff"
)

// Principal es la identidad autenticada que el middleware deja en el contexto.
// Para OWNER, ID es a la vez el id del negocio; para STAFF, BusinessID apunta
// al negocio dueño y Permissions trae el set vigente del empleado.
type Principal struct {
	ID          uuid.UUID
	Role        Role
	BusinessID  uuid.UUID
	Permissions permissions.Set
}

// TenantID resuelve el negocio que delimita todas las consultas.
func (p Principal) TenantID() uuid.UUID {
	if p.Role == RoleStaff {
		return p.BusinessID
	}
	return p.ID
}

// Can es el único chequeo de autorización: el dueño puede todo,
// el empleado solo lo que su set le otorga.
func (p Principal) Can(m permissions.Module, a permissions.Action) bool {
	if p.Role == RoleOwner {
		return true
	}
	return p.Permissions.Has(m, a)
}
