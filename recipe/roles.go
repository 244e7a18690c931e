package recipe

import (
	"github.com/YuminosukeSato/recipes/pkg/errors"
)

// Role is a semantic tag attached to a column name, independent of the
// column's storage position. Besides the standard roles below, any non-empty
// string is accepted as a custom role.
type Role string

// Standard roles.
const (
	// RolePredictor columns form the model matrix.
	RolePredictor Role = "predictor"
	// RoleOutcome is the variable being modeled. A recipe has one outcome.
	RoleOutcome Role = "outcome"
	// RoleAuxiliary columns ride along through resampling but are excluded
	// from model fitting; they are exposed only to evaluation functions.
	RoleAuxiliary Role = "auxiliary"
	// RoleCaseWeight columns carry per-row weights for evaluation metrics.
	RoleCaseWeight Role = "case_weight"
)

// RoleMap assigns roles to the columns of a reference schema. Columns without
// an explicit assignment default to RolePredictor.
type RoleMap struct {
	order []string
	known map[string]bool
	roles map[string]Role
}

// newRoleMap builds a role map over the reference column names with one
// designated outcome; all remaining columns default to predictor.
func newRoleMap(names []string, outcome string) (*RoleMap, error) {
	rm := &RoleMap{
		order: append([]string(nil), names...),
		known: make(map[string]bool, len(names)),
		roles: make(map[string]Role),
	}
	for _, n := range names {
		rm.known[n] = true
	}
	if !rm.known[outcome] {
		return nil, errors.NewUnknownColumnError("recipe.New", outcome)
	}
	rm.roles[outcome] = RoleOutcome
	return rm, nil
}

// Set assigns a role to a column of the reference schema. Assigning
// RoleOutcome moves the outcome: the previously designated outcome column
// reverts to predictor.
func (rm *RoleMap) Set(column string, role Role) error {
	if !rm.known[column] {
		return errors.NewUnknownColumnError("RoleMap.Set", column)
	}
	if role == "" {
		return errors.NewValidationError("role", "empty role", role)
	}
	if role == RoleOutcome {
		for c, r := range rm.roles {
			if r == RoleOutcome {
				delete(rm.roles, c)
			}
		}
	}
	rm.roles[column] = role
	return nil
}

// Role returns the role of a column, defaulting to RolePredictor for known
// columns without an explicit assignment.
func (rm *RoleMap) Role(column string) Role {
	if r, ok := rm.roles[column]; ok {
		return r
	}
	return RolePredictor
}

// ColumnsWithRole returns the reference-schema columns holding the given
// role, in schema order.
func (rm *RoleMap) ColumnsWithRole(role Role) []string {
	var out []string
	for _, n := range rm.order {
		if rm.Role(n) == role {
			out = append(out, n)
		}
	}
	return out
}

// Outcome returns the designated outcome column, or "" if none.
func (rm *RoleMap) Outcome() string {
	for _, n := range rm.order {
		if rm.Role(n) == RoleOutcome {
			return n
		}
	}
	return ""
}

// clone returns a deep copy of the role map.
func (rm *RoleMap) clone() *RoleMap {
	out := &RoleMap{
		order: append([]string(nil), rm.order...),
		known: make(map[string]bool, len(rm.known)),
		roles: make(map[string]Role, len(rm.roles)),
	}
	for k := range rm.known {
		out.known[k] = true
	}
	for k, v := range rm.roles {
		out.roles[k] = v
	}
	return out
}
