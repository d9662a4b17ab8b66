package model

import (
	"time"
)

// Event is a calendar entry hosted by an employee
type Event struct {
	ID            int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	Title         string     `gorm:"column:title" json:"title,omitempty"`
	Description   string     `gorm:"column:description" json:"description,omitempty"`
	Location      string     `gorm:"column:location" json:"location,omitempty"`
	StartDate     *time.Time `gorm:"column:start_date" json:"startDate,omitempty"`
	EndDate       *time.Time `gorm:"column:end_date" json:"endDate,omitempty"`
	InviteOnly    bool       `gorm:"column:invite_only;not null;default:false" json:"inviteOnly"`
	ParticipantID *int64     `gorm:"column:participant_id;index" json:"-"`
	Participant   *Employee  `gorm:"foreignKey:ParticipantID;constraint:OnDelete:SET NULL" json:"participant,omitempty"`
	HostID        *int64     `gorm:"column:host_id;index" json:"-"`
	Host          *Employee  `gorm:"foreignKey:HostID;constraint:OnDelete:SET NULL" json:"host,omitempty"`
}

// EventColumns is the column mapping of Event
var EventColumns = Columns{
	{Field: "id", Name: "id", Type: ColumnBigInt},
	{Field: "title", Name: "title", Type: ColumnText, Nullable: true},
	{Field: "description", Name: "description", Type: ColumnText, Nullable: true},
	{Field: "location", Name: "location", Type: ColumnText, Nullable: true},
	{Field: "startDate", Name: "start_date", Type: ColumnTimestamp, Nullable: true},
	{Field: "endDate", Name: "end_date", Type: ColumnTimestamp, Nullable: true},
	{Field: "inviteOnly", Name: "invite_only", Type: ColumnBool},
	{Field: "participant", Name: "participant_id", Type: ColumnBigInt, Nullable: true},
	{Field: "host", Name: "host_id", Type: ColumnBigInt, Nullable: true},
}

// TableName implements the gorm.Tabler interface
func (Event) TableName() string { return "event" }

// GetID implements the Record interface
func (e *Event) GetID() int64 { return e.ID }

// EntityName implements the Record interface
func (*Event) EntityName() string { return "event" }

// Columns implements the Record interface
func (*Event) Columns() Columns { return EventColumns }

// SyncReferences implements the Record interface
func (e *Event) SyncReferences() {
	e.ParticipantID = refID(e.Participant)
	e.HostID = refID(e.Host)
}

// Equal reports whether both values denote the same persisted event
func (e *Event) Equal(o *Event) bool {
	if e == o {
		return true
	}
	if e == nil || o == nil {
		return false
	}
	return e.ID != 0 && e.ID == o.ID
}
