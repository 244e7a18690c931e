package recipe

import (
	"reflect"
	"testing"
)

func TestRoleMapDefaults(t *testing.T) {
	rm, err := newRoleMap([]string{"y", "x1", "x2"}, "y")
	if err != nil {
		t.Fatalf("newRoleMap() error = %v", err)
	}

	if got := rm.Role("y"); got != RoleOutcome {
		t.Errorf("Role(y) = %v, want outcome", got)
	}
	if got := rm.Role("x1"); got != RolePredictor {
		t.Errorf("Role(x1) = %v, want predictor", got)
	}
	if got := rm.Outcome(); got != "y" {
		t.Errorf("Outcome() = %q, want y", got)
	}
	if got := rm.ColumnsWithRole(RolePredictor); !reflect.DeepEqual(got, []string{"x1", "x2"}) {
		t.Errorf("ColumnsWithRole(predictor) = %v, want [x1 x2]", got)
	}
}

func TestRoleMapUnknownOutcome(t *testing.T) {
	if _, err := newRoleMap([]string{"x1"}, "y"); err == nil {
		t.Fatal("newRoleMap() with unknown outcome expected error")
	}
}

func TestRoleMapSet(t *testing.T) {
	rm, err := newRoleMap([]string{"y", "x1", "x2", "w"}, "y")
	if err != nil {
		t.Fatalf("newRoleMap() error = %v", err)
	}

	if err := rm.Set("x1", RoleAuxiliary); err != nil {
		t.Fatalf("Set(x1, auxiliary) error = %v", err)
	}
	if err := rm.Set("w", RoleCaseWeight); err != nil {
		t.Fatalf("Set(w, case_weight) error = %v", err)
	}
	if got := rm.ColumnsWithRole(RolePredictor); !reflect.DeepEqual(got, []string{"x2"}) {
		t.Errorf("ColumnsWithRole(predictor) = %v, want [x2]", got)
	}
	if got := rm.ColumnsWithRole(RoleAuxiliary); !reflect.DeepEqual(got, []string{"x1"}) {
		t.Errorf("ColumnsWithRole(auxiliary) = %v, want [x1]", got)
	}

	if err := rm.Set("ghost", RoleAuxiliary); err == nil {
		t.Error("Set(unknown column) expected error")
	}
	if err := rm.Set("x2", ""); err == nil {
		t.Error("Set(empty role) expected error")
	}
}

// Reassigning the outcome moves it: the previous outcome reverts to
// predictor, keeping exactly one outcome.
func TestRoleMapOutcomeMoves(t *testing.T) {
	rm, err := newRoleMap([]string{"y", "x1", "x2"}, "y")
	if err != nil {
		t.Fatalf("newRoleMap() error = %v", err)
	}

	if err := rm.Set("x1", RoleOutcome); err != nil {
		t.Fatalf("Set(x1, outcome) error = %v", err)
	}
	if got := rm.Outcome(); got != "x1" {
		t.Errorf("Outcome() = %q, want x1", got)
	}
	if got := rm.Role("y"); got != RolePredictor {
		t.Errorf("Role(y) after move = %v, want predictor", got)
	}
	if got := rm.ColumnsWithRole(RoleOutcome); len(got) != 1 {
		t.Errorf("ColumnsWithRole(outcome) = %v, want exactly one", got)
	}
}

func TestRoleMapCustomRole(t *testing.T) {
	rm, err := newRoleMap([]string{"y", "batch"}, "y")
	if err != nil {
		t.Fatalf("newRoleMap() error = %v", err)
	}
	if err := rm.Set("batch", Role("blocking")); err != nil {
		t.Fatalf("Set(custom role) error = %v", err)
	}
	if got := rm.Role("batch"); got != Role("blocking") {
		t.Errorf("Role(batch) = %v, want blocking", got)
	}
}

func TestRoleMapClone(t *testing.T) {
	rm, err := newRoleMap([]string{"y", "x1"}, "y")
	if err != nil {
		t.Fatalf("newRoleMap() error = %v", err)
	}
	cp := rm.clone()
	if err := cp.Set("x1", RoleAuxiliary); err != nil {
		t.Fatalf("Set() on clone error = %v", err)
	}
	if got := rm.Role("x1"); got != RolePredictor {
		t.Errorf("clone mutation leaked: Role(x1) = %v, want predictor", got)
	}
}
