package permissions

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Module × Action forman la capacidad que un empleado puede tener.
// Los nombres siguen el contrato JSON histórico (citas/empleados/clientes).

type Module string

const (
	ModuleAppointments Module = "citas"
	ModuleEmployees    Module = "empleados"
	ModuleClients      Module = "clientes"
)

type Action string

const (
	ActionCreate Action = "crear"
	ActionEdit   Action = "editar"
	ActionDelete Action = "eliminar"
)

type Actions struct {
	Create bool `json:"crear"`
	Edit   bool `json:"editar"`
	Delete bool `json:"eliminar"`
}

func (a Actions) has(action Action) bool {
	switch action {
	case ActionCreate:
		return a.Create
	case ActionEdit:
		return a.Edit
	case ActionDelete:
		return a.Delete
	}
	return false
}

// Set es el conjunto de permisos de un empleado. El valor cero niega todo.
type Set struct {
	Appointments Actions `json:"citas"`
	Employees    Actions `json:"empleados"`
	Clients      Actions `json:"clientes"`
}

// Has es el único punto de autorización: nunca consultar los booleanos sueltos.
func (s Set) Has(m Module, a Action) bool {
	switch m {
	case ModuleAppointments:
		return s.Appointments.has(a)
	case ModuleEmployees:
		return s.Employees.has(a)
	case ModuleClients:
		return s.Clients.has(a)
	}
	return false
}

// None es el set asignado a empleados recién creados.
func None() Set {
	return Set{}
}

// Value / Scan: el set se persiste como JSONB.

func (s Set) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *Set) Scan(value any) error {
	if value == nil {
		*s = Set{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	}
	return fmt.Errorf("permissions: cannot scan %T", value)
}
