package appointment

import "github.com/google/uuid"

// Assignee es quién atiende la cita: el dueño del negocio o un empleado.
// Toda la lógica de solapamiento y de presentación trabaja sobre esta
// variante; la columna nullable solo existe en la frontera de storage.
type Assignee struct {
	staffID *uuid.UUID
}

func OwnerAssignee() Assignee {
	return Assignee{}
}

func StaffAssignee(id uuid.UUID) Assignee {
	return Assignee{staffID: &id}
}

func (a Assignee) IsOwner() bool {
	return a.staffID == nil
}

func (a Assignee) StaffID() (uuid.UUID, bool) {
	if a.staffID == nil {
		return uuid.Nil, false
	}
	return *a.staffID, true
}

// Column traduce la variante a la FK nullable que persiste GORM.
func (a Assignee) Column() *uuid.UUID {
	if a.staffID == nil {
		return nil
	}
	id := *a.staffID
	return &id
}

// AssigneeFromColumn reconstruye la variante desde la columna almacenada.
func AssigneeFromColumn(id *uuid.UUID) Assignee {
	if id == nil {
		return OwnerAssignee()
	}
	return StaffAssignee(*id)
}
