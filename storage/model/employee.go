package model

// Employee is a member of staff. Position optionally links to another
// employee (one-to-one, unique).
//
// VacationRequests, SickLeaves and Events are never stored on the employee
// row; they are assembled on read from the rows referencing the employee
// (as stand-in, as employee and as host).
type Employee struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	FirstName   string    `gorm:"column:first_name" json:"firstName,omitempty"`
	LastName    string    `gorm:"column:last_name" json:"lastName,omitempty"`
	Email       string    `gorm:"column:email" json:"email,omitempty"`
	PhoneNumber string    `gorm:"column:phone_number" json:"phoneNumber,omitempty"`
	Team        string    `gorm:"column:team" json:"team,omitempty"`
	PositionID  *int64    `gorm:"column:position_id;uniqueIndex" json:"-"`
	Position    *Employee `gorm:"foreignKey:PositionID;constraint:OnDelete:SET NULL" json:"position,omitempty"`

	VacationRequests []VacationRequest `gorm:"-" json:"vacationRequests,omitempty"`
	SickLeaves       []SickLeave       `gorm:"-" json:"sickLeaves,omitempty"`
	Events           []Event           `gorm:"-" json:"events,omitempty"`
}

// EmployeeColumns is the column mapping of Employee
var EmployeeColumns = Columns{
	{Field: "id", Name: "id", Type: ColumnBigInt},
	{Field: "firstName", Name: "first_name", Type: ColumnText, Nullable: true},
	{Field: "lastName", Name: "last_name", Type: ColumnText, Nullable: true},
	{Field: "email", Name: "email", Type: ColumnText, Nullable: true},
	{Field: "phoneNumber", Name: "phone_number", Type: ColumnText, Nullable: true},
	{Field: "team", Name: "team", Type: ColumnText, Nullable: true},
	{Field: "position", Name: "position_id", Type: ColumnBigInt, Nullable: true},
}

// TableName implements the gorm.Tabler interface
func (Employee) TableName() string { return "employee" }

// GetID implements the Record interface
func (e *Employee) GetID() int64 { return e.ID }

// EntityName implements the Record interface
func (*Employee) EntityName() string { return "employee" }

// Columns implements the Record interface
func (*Employee) Columns() Columns { return EmployeeColumns }

// SyncReferences implements the Record interface
func (e *Employee) SyncReferences() {
	e.PositionID = refID(e.Position)
}

// Equal reports whether both values denote the same persisted employee.
// Records without an id are only equal to themselves.
func (e *Employee) Equal(o *Employee) bool {
	if e == o {
		return true
	}
	if e == nil || o == nil {
		return false
	}
	return e.ID != 0 && e.ID == o.ID
}
