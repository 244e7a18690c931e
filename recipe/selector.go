package recipe

import (
	"fmt"
	"strings"

	"github.com/YuminosukeSato/recipes/dataset"
)

// selKind tags the selector variants.
type selKind int

const (
	selAll selKind = iota
	selName
	selPrefix
	selRole
	selType
	selUnion
	selDifference
	selIntersection
)

// Selector is a pure predicate over column metadata (name, role, declared
// type) choosing which columns a step applies to. Selectors are small tagged
// variants composed with Union, Difference, and Intersection; they are
// evaluated lazily against a schema snapshot at fit time, never at
// declaration time.
type Selector struct {
	kind   selKind
	names  []string
	prefix string
	role   Role
	ctype  dataset.ColType
	lhs    *Selector
	rhs    *Selector
}

// All selects every column.
func All() Selector {
	return Selector{kind: selAll}
}

// ByName selects columns by exact name.
func ByName(names ...string) Selector {
	return Selector{kind: selName, names: append([]string(nil), names...)}
}

// ByPrefix selects columns whose name starts with the given prefix.
func ByPrefix(prefix string) Selector {
	return Selector{kind: selPrefix, prefix: prefix}
}

// ByRole selects columns holding the given role.
func ByRole(role Role) Selector {
	return Selector{kind: selRole, role: role}
}

// ByType selects columns of the given declared type.
func ByType(t dataset.ColType) Selector {
	return Selector{kind: selType, ctype: t}
}

// AllPredictors selects every predictor-role column.
func AllPredictors() Selector {
	return ByRole(RolePredictor)
}

// AllNumeric selects every numeric column.
func AllNumeric() Selector {
	return ByType(dataset.Numeric)
}

// AllNumericPredictors selects numeric predictor-role columns.
func AllNumericPredictors() Selector {
	return Intersection(AllPredictors(), AllNumeric())
}

// Union selects columns matched by either selector.
func Union(a, b Selector) Selector {
	return Selector{kind: selUnion, lhs: &a, rhs: &b}
}

// Difference selects columns matched by a but not by b.
func Difference(a, b Selector) Selector {
	return Selector{kind: selDifference, lhs: &a, rhs: &b}
}

// Intersection selects columns matched by both selectors.
func Intersection(a, b Selector) Selector {
	return Selector{kind: selIntersection, lhs: &a, rhs: &b}
}

// Matches reports whether the selector matches one column's metadata.
// Combinators evaluate left to right, so equivalent compositions always agree.
func (s Selector) Matches(col SchemaCol) bool {
	switch s.kind {
	case selAll:
		return true
	case selName:
		for _, n := range s.names {
			if col.Name == n {
				return true
			}
		}
		return false
	case selPrefix:
		return strings.HasPrefix(col.Name, s.prefix)
	case selRole:
		return col.Role == s.role
	case selType:
		return col.Type == s.ctype
	case selUnion:
		return s.lhs.Matches(col) || s.rhs.Matches(col)
	case selDifference:
		return s.lhs.Matches(col) && !s.rhs.Matches(col)
	case selIntersection:
		return s.lhs.Matches(col) && s.rhs.Matches(col)
	default:
		return false
	}
}

// Resolve returns the names of matching columns. Output order is schema
// order, so resolution is deterministic and stable under reordering of the
// selector composition.
func (s Selector) Resolve(schema Schema) []string {
	var out []string
	for _, col := range schema {
		if s.Matches(col) {
			out = append(out, col.Name)
		}
	}
	return out
}

// String returns a readable representation of the selector.
func (s Selector) String() string {
	switch s.kind {
	case selAll:
		return "all()"
	case selName:
		return fmt.Sprintf("name(%s)", strings.Join(s.names, ","))
	case selPrefix:
		return fmt.Sprintf("prefix(%s)", s.prefix)
	case selRole:
		return fmt.Sprintf("role(%s)", s.role)
	case selType:
		return fmt.Sprintf("type(%s)", s.ctype)
	case selUnion:
		return fmt.Sprintf("(%s | %s)", s.lhs, s.rhs)
	case selDifference:
		return fmt.Sprintf("(%s - %s)", s.lhs, s.rhs)
	case selIntersection:
		return fmt.Sprintf("(%s & %s)", s.lhs, s.rhs)
	default:
		return "invalid()"
	}
}
