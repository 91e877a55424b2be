package appointment

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/atempo-app/atempo-api/internal/httperr"
	"github.com/atempo-app/atempo-api/internal/permissions"
	"github.com/atempo-app/atempo-api/internal/principal"
)

func ownerPrincipal(repo *fakeRepo) principal.Principal {
	return principal.Principal{
		ID:         repo.business.ID,
		Role:       principal.RoleOwner,
		BusinessID: repo.business.ID,
	}
}

func staffPrincipal(repo *fakeRepo, perms permissions.Set) principal.Principal {
	return principal.Principal{
		ID:          uuid.New(),
		Role:        principal.RoleStaff,
		BusinessID:  repo.business.ID,
		Permissions: perms,
	}
}

func baseInput(employeeID uuid.UUID) CreateAppointmentInput {
	return CreateAppointmentInput{
		Title:      "Corte de cabello",
		EmployeeID: employeeID,
		StartAt:    at(10, 0),
		EndAt:      at(11, 0),
	}
}

func TestCreate_OwnerSentinelNormalizedToNull(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCreateAppointment(repo, testDispatcher())

	// empleado_id == id del negocio significa "atiende el dueño"
	ap, err := uc.Execute(context.Background(), ownerPrincipal(repo), baseInput(repo.business.ID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ap.EmployeeID != nil {
		t.Fatal("owner assignee must be stored as NULL")
	}
}

func TestCreate_StaffWithoutPermissionForbidden(t *testing.T) {
	repo := newFakeRepo()
	emp := repo.addEmployee(true)
	uc := NewCreateAppointment(repo, testDispatcher())

	_, err := uc.Execute(context.Background(),
		staffPrincipal(repo, permissions.None()), baseInput(emp.ID))
	if !httperr.IsBusiness(err, httperr.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestCreate_StaffWithPermissionSucceeds(t *testing.T) {
	repo := newFakeRepo()
	emp := repo.addEmployee(true)
	uc := NewCreateAppointment(repo, testDispatcher())

	perms := permissions.Set{Appointments: permissions.Actions{Create: true}}
	ap, err := uc.Execute(context.Background(), staffPrincipal(repo, perms), baseInput(emp.ID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ap.EmployeeID == nil || *ap.EmployeeID != emp.ID {
		t.Fatal("assignee must be the employee")
	}
	if ap.BusinessID != repo.business.ID {
		t.Fatal("appointment must be tenant-scoped")
	}
}

func TestCreate_InactiveEmployeeIsInvalidAssignee(t *testing.T) {
	repo := newFakeRepo()
	emp := repo.addEmployee(false)
	uc := NewCreateAppointment(repo, testDispatcher())

	_, err := uc.Execute(context.Background(), ownerPrincipal(repo), baseInput(emp.ID))
	if !httperr.IsBusiness(err, httperr.CodeInvalidAssignee) {
		t.Fatalf("expected invalid_assignee, got %v", err)
	}
}

func TestCreate_UnknownEmployeeIsInvalidAssignee(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCreateAppointment(repo, testDispatcher())

	_, err := uc.Execute(context.Background(), ownerPrincipal(repo), baseInput(uuid.New()))
	if !httperr.IsBusiness(err, httperr.CodeInvalidAssignee) {
		t.Fatalf("expected invalid_assignee, got %v", err)
	}
}

func TestCreate_InvalidTimeRange(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCreateAppointment(repo, testDispatcher())

	in := baseInput(repo.business.ID)
	in.StartAt = at(11, 0)
	in.EndAt = at(10, 0)
	if _, err := uc.Execute(context.Background(), ownerPrincipal(repo), in); !httperr.IsBusiness(err, httperr.CodeInvalidTimeRange) {
		t.Fatalf("expected invalid_time_range, got %v", err)
	}

	in.EndAt = in.StartAt
	if _, err := uc.Execute(context.Background(), ownerPrincipal(repo), in); !httperr.IsBusiness(err, httperr.CodeInvalidTimeRange) {
		t.Fatalf("zero-length interval must fail, got %v", err)
	}
}

func TestCreate_EmptyTitle(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCreateAppointment(repo, testDispatcher())

	in := baseInput(repo.business.ID)
	in.Title = "   "
	_, err := uc.Execute(context.Background(), ownerPrincipal(repo), in)
	if !httperr.IsBusiness(err, httperr.CodeValidation) {
		t.Fatalf("expected validation_error, got %v", err)
	}
}

func TestCreate_ReminderRequiresContact(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCreateAppointment(repo, testDispatcher())

	in := baseInput(repo.business.ID)
	in.HasReminder = true
	// sin email ni celular
	if _, err := uc.Execute(context.Background(), ownerPrincipal(repo), in); !httperr.IsBusiness(err, httperr.CodeReminderRequiresContact) {
		t.Fatalf("expected reminder_requires_contact, got %v", err)
	}

	// con email pero sin celular
	email := "cliente@example.com"
	in.ClientEmail = &email
	if _, err := uc.Execute(context.Background(), ownerPrincipal(repo), in); !httperr.IsBusiness(err, httperr.CodeReminderRequiresContact) {
		t.Fatalf("expected reminder_requires_contact, got %v", err)
	}

	// con ambos pasa
	in.ClientPhone = "5512345678"
	if _, err := uc.Execute(context.Background(), ownerPrincipal(repo), in); err != nil {
		t.Fatalf("create with contact: %v", err)
	}
}

func TestCreate_InvalidClientEmailSyntax(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCreateAppointment(repo, testDispatcher())

	bad := "no-es-un-correo"
	in := baseInput(repo.business.ID)
	in.ClientEmail = &bad
	if _, err := uc.Execute(context.Background(), ownerPrincipal(repo), in); !httperr.IsBusiness(err, httperr.CodeValidation) {
		t.Fatalf("expected validation_error, got %v", err)
	}

	// Vacío significa "sin correo" y no se valida sintaxis.
	empty := "   "
	in.ClientEmail = &empty
	if _, err := uc.Execute(context.Background(), ownerPrincipal(repo), in); err != nil {
		t.Fatalf("blank email must be treated as absent: %v", err)
	}
}

func TestCreate_SlotConflictSameAssignee(t *testing.T) {
	repo := newFakeRepo()
	s1 := repo.addEmployee(true)
	s2 := repo.addEmployee(true)
	uc := NewCreateAppointment(repo, testDispatcher())
	owner := ownerPrincipal(repo)

	// A: S1 10:00–11:00
	in := baseInput(s1.ID)
	if _, err := uc.Execute(context.Background(), owner, in); err != nil {
		t.Fatalf("create A: %v", err)
	}

	// B: S1 10:30–11:30 → conflicto
	in = baseInput(s1.ID)
	in.StartAt = at(10, 30)
	in.EndAt = at(11, 30)
	if _, err := uc.Execute(context.Background(), owner, in); !httperr.IsBusiness(err, httperr.CodeSlotConflict) {
		t.Fatalf("expected slot_conflict, got %v", err)
	}

	// C: S2 mismo horario → sin conflicto
	in.EmployeeID = s2.ID
	if _, err := uc.Execute(context.Background(), owner, in); err != nil {
		t.Fatalf("create C: %v", err)
	}
}

func TestCreate_OwnerNormalizationSharesOverlapSpace(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCreateAppointment(repo, testDispatcher())
	owner := ownerPrincipal(repo)

	if _, err := uc.Execute(context.Background(), owner, baseInput(repo.business.ID)); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Mismo horario, también para el dueño: debe chocar contra la primera.
	in := baseInput(repo.business.ID)
	in.StartAt = at(10, 30)
	in.EndAt = at(11, 30)
	if _, err := uc.Execute(context.Background(), owner, in); !httperr.IsBusiness(err, httperr.CodeSlotConflict) {
		t.Fatalf("expected slot_conflict against owner slot, got %v", err)
	}
}

func TestCreate_AdjacentIntervalsDoNotConflict(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCreateAppointment(repo, testDispatcher())
	owner := ownerPrincipal(repo)

	if _, err := uc.Execute(context.Background(), owner, baseInput(repo.business.ID)); err != nil {
		t.Fatalf("create: %v", err)
	}

	// [11:00, 12:00) pegada a [10:00, 11:00) no se solapa
	in := baseInput(repo.business.ID)
	in.StartAt = at(11, 0)
	in.EndAt = at(12, 0)
	if _, err := uc.Execute(context.Background(), owner, in); err != nil {
		t.Fatalf("adjacent interval must not conflict: %v", err)
	}
}

func TestCreate_ReminderConfigOutOfRange(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCreateAppointment(repo, testDispatcher())

	email := "cliente@example.com"
	lead := 100
	in := baseInput(repo.business.ID)
	in.HasReminder = true
	in.ClientEmail = &email
	in.ClientPhone = "5512345678"
	in.ReminderLeadHours = &lead

	_, err := uc.Execute(context.Background(), ownerPrincipal(repo), in)
	if !httperr.IsBusiness(err, httperr.CodeValidation) {
		t.Fatalf("expected validation_error, got %v", err)
	}
}
