package model

// ColumnType names the SQL type a mapped field is stored as.
type ColumnType string

// Column types used by the entity mappings
const (
	ColumnBigInt    ColumnType = "bigint"
	ColumnText      ColumnType = "varchar(255)"
	ColumnBool      ColumnType = "boolean"
	ColumnTimestamp ColumnType = "timestamp"
)

// Column maps a JSON field of an entity to its database column.
type Column struct {
	Field    string
	Name     string
	Type     ColumnType
	Nullable bool
}

// IsReference reports whether the column holds the foreign key of a nested
// Employee reference. References are the only bigint columns besides id.
func (c Column) IsReference() bool {
	return c.Type == ColumnBigInt && c.Field != "id"
}

// Columns is the explicit mapping table of an entity. Sorting and filtering
// only accept fields listed here.
type Columns []Column

// Lookup returns the Column for the passed JSON field name
func (cs Columns) Lookup(field string) (Column, bool) {
	for _, c := range cs {
		if c.Field == field {
			return c, true
		}
	}
	return Column{}, false
}

// Record is implemented by every entity handled by the generic gateway and
// REST resource.
type Record interface {
	// GetID returns the identifier; 0 means the record was not persisted yet
	GetID() int64
	// EntityName returns the camel-cased entity name, e.g. "vacationRequest"
	EntityName() string
	// Columns returns the explicit column mapping
	Columns() Columns
	// SyncReferences copies the ids of nested references into the foreign
	// key columns, so that only the keys are written.
	SyncReferences()
}

// RecordPtr constrains a type parameter to a pointer to an entity struct.
type RecordPtr[E any] interface {
	*E
	Record
}

func refID(e *Employee) *int64 {
	if e == nil || e.ID == 0 {
		return nil
	}
	id := e.ID
	return &id
}
