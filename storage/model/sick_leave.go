package model

import (
	"time"
)

// SickLeave records a period an employee was sick
type SickLeave struct {
	ID         int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	StartDate  *time.Time `gorm:"column:start_date" json:"startDate,omitempty"`
	EndDate    *time.Time `gorm:"column:end_date" json:"endDate,omitempty"`
	EmployeeID *int64     `gorm:"column:employee_id;index" json:"-"`
	Employee   *Employee  `gorm:"foreignKey:EmployeeID;constraint:OnDelete:SET NULL" json:"employee,omitempty"`
}

// SickLeaveColumns is the column mapping of SickLeave
var SickLeaveColumns = Columns{
	{Field: "id", Name: "id", Type: ColumnBigInt},
	{Field: "startDate", Name: "start_date", Type: ColumnTimestamp, Nullable: true},
	{Field: "endDate", Name: "end_date", Type: ColumnTimestamp, Nullable: true},
	{Field: "employee", Name: "employee_id", Type: ColumnBigInt, Nullable: true},
}

// TableName implements the gorm.Tabler interface
func (SickLeave) TableName() string { return "sick_leave" }

// GetID implements the Record interface
func (s *SickLeave) GetID() int64 { return s.ID }

// EntityName implements the Record interface
func (*SickLeave) EntityName() string { return "sickLeave" }

// Columns implements the Record interface
func (*SickLeave) Columns() Columns { return SickLeaveColumns }

// SyncReferences implements the Record interface
func (s *SickLeave) SyncReferences() {
	s.EmployeeID = refID(s.Employee)
}

// Equal reports whether both values denote the same persisted sick leave
func (s *SickLeave) Equal(o *SickLeave) bool {
	if s == o {
		return true
	}
	if s == nil || o == nil {
		return false
	}
	return s.ID != 0 && s.ID == o.ID
}
