package recipe

import (
	"github.com/YuminosukeSato/recipes/dataset"
)

// SchemaCol is one column's metadata as seen by selectors: name, declared
// type, and role.
type SchemaCol struct {
	Name string
	Type dataset.ColType
	Role Role
}

// Schema is an ordered snapshot of column metadata. Selectors resolve against
// a schema snapshot taken at fit time, so the resolved column set reflects
// columns created or removed by earlier steps.
type Schema []SchemaCol

// Has reports whether the schema contains a column.
func (s Schema) Has(name string) bool {
	for _, c := range s {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Col returns the metadata for a named column.
func (s Schema) Col(name string) (SchemaCol, bool) {
	for _, c := range s {
		if c.Name == name {
			return c, true
		}
	}
	return SchemaCol{}, false
}

// Names returns the column names in schema order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

// ColumnsWithRole returns the columns holding the given role, in schema order.
func (s Schema) ColumnsWithRole(role Role) []string {
	var out []string
	for _, c := range s {
		if c.Role == role {
			out = append(out, c.Name)
		}
	}
	return out
}

// snapshotSchema captures the dataset's column metadata using roleOf for role
// lookup.
func snapshotSchema(ds *dataset.Dataset, roleOf func(string) Role) Schema {
	schema := make(Schema, 0, ds.NumCols())
	for i := 0; i < ds.NumCols(); i++ {
		col := ds.ColumnAt(i)
		schema = append(schema, SchemaCol{
			Name: col.Name,
			Type: col.Type,
			Role: roleOf(col.Name),
		})
	}
	return schema
}
