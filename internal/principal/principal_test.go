package principal

import (
	"testing"

	"github.com/google/uuid"

	"github.com/atempo-app/atempo-api/internal/permissions"
)

func TestTenantID(t *testing.T) {
	ownerID := uuid.New()
	staffID := uuid.New()
	businessID := uuid.New()

	owner := Principal{ID: ownerID, Role: RoleOwner}
	if owner.TenantID() != ownerID {
		t.Fatal("owner tenant must be its own id")
	}

	staff := Principal{ID: staffID, Role: RoleStaff, BusinessID: businessID}
	if staff.TenantID() != businessID {
		t.Fatal("staff tenant must be the owning business id")
	}
}

func TestCan(t *testing.T) {
	owner := Principal{ID: uuid.New(), Role: RoleOwner}
	if !owner.Can(permissions.ModuleAppointments, permissions.ActionDelete) {
		t.Fatal("owner can do everything")
	}

	staff := Principal{
		ID:   uuid.New(),
		Role: RoleStaff,
		Permissions: permissions.Set{
			Appointments: permissions.Actions{Create: true},
		},
	}
	if !staff.Can(permissions.ModuleAppointments, permissions.ActionCreate) {
		t.Fatal("granted capability denied")
	}
	if staff.Can(permissions.ModuleAppointments, permissions.ActionDelete) {
		t.Fatal("missing capability granted")
	}
}
