package model

import (
	"time"
)

// VacationRequest is a request for time off. Owner is free text and not
// related to the applicant.
type VacationRequest struct {
	ID          int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	Status      bool       `gorm:"column:status;not null;default:false" json:"status"`
	StartDate   *time.Time `gorm:"column:start_date" json:"startDate,omitempty"`
	EndDate     *time.Time `gorm:"column:end_date" json:"endDate,omitempty"`
	Owner       string     `gorm:"column:owner;index" json:"owner,omitempty"`
	ApplicantID *int64     `gorm:"column:applicant_id;index" json:"-"`
	Applicant   *Employee  `gorm:"foreignKey:ApplicantID;constraint:OnDelete:SET NULL" json:"applicant,omitempty"`
	StandInID   *int64     `gorm:"column:stand_in_id;index" json:"-"`
	StandIn     *Employee  `gorm:"foreignKey:StandInID;constraint:OnDelete:SET NULL" json:"standIn,omitempty"`
}

// VacationRequestColumns is the column mapping of VacationRequest
var VacationRequestColumns = Columns{
	{Field: "id", Name: "id", Type: ColumnBigInt},
	{Field: "status", Name: "status", Type: ColumnBool},
	{Field: "startDate", Name: "start_date", Type: ColumnTimestamp, Nullable: true},
	{Field: "endDate", Name: "end_date", Type: ColumnTimestamp, Nullable: true},
	{Field: "owner", Name: "owner", Type: ColumnText, Nullable: true},
	{Field: "applicant", Name: "applicant_id", Type: ColumnBigInt, Nullable: true},
	{Field: "standIn", Name: "stand_in_id", Type: ColumnBigInt, Nullable: true},
}

// TableName implements the gorm.Tabler interface
func (VacationRequest) TableName() string { return "vacation_request" }

// GetID implements the Record interface
func (v *VacationRequest) GetID() int64 { return v.ID }

// EntityName implements the Record interface
func (*VacationRequest) EntityName() string { return "vacationRequest" }

// Columns implements the Record interface
func (*VacationRequest) Columns() Columns { return VacationRequestColumns }

// SyncReferences implements the Record interface
func (v *VacationRequest) SyncReferences() {
	v.ApplicantID = refID(v.Applicant)
	v.StandInID = refID(v.StandIn)
}

// Equal reports whether both values denote the same persisted request
func (v *VacationRequest) Equal(o *VacationRequest) bool {
	if v == o {
		return true
	}
	if v == nil || o == nil {
		return false
	}
	return v.ID != 0 && v.ID == o.ID
}
