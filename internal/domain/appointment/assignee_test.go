package appointment

import (
	"testing"

	"github.com/google/uuid"
)

func TestOwnerAssignee(t *testing.T) {
	a := OwnerAssignee()

	if !a.IsOwner() {
		t.Fatal("expected owner variant")
	}
	if _, ok := a.StaffID(); ok {
		t.Fatal("owner has no staff id")
	}
	if a.Column() != nil {
		t.Fatal("owner must map to NULL column")
	}
}

func TestStaffAssignee(t *testing.T) {
	id := uuid.New()
	a := StaffAssignee(id)

	if a.IsOwner() {
		t.Fatal("expected staff variant")
	}
	got, ok := a.StaffID()
	if !ok || got != id {
		t.Fatalf("staff id = %v, ok = %v", got, ok)
	}
	col := a.Column()
	if col == nil || *col != id {
		t.Fatal("staff must map to its id column")
	}
}

func TestAssigneeFromColumn(t *testing.T) {
	if !AssigneeFromColumn(nil).IsOwner() {
		t.Fatal("NULL column means owner")
	}

	id := uuid.New()
	a := AssigneeFromColumn(&id)
	got, ok := a.StaffID()
	if !ok || got != id {
		t.Fatal("column id must round-trip")
	}
}
