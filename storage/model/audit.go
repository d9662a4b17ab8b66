package model

import (
	"context"
	"time"

	"gorm.io/datatypes"
)

// Audit event types
const (
	AuditEntityCreated = "ENTITY_CREATED"
	AuditEntityUpdated = "ENTITY_UPDATED"
	AuditEntityDeleted = "ENTITY_DELETED"
)

// AuditEvent records a successful mutation through the REST API.
// Data holds the JSON representation of the record after the mutation;
// it is empty for deletions.
type AuditEvent struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Timestamp time.Time      `gorm:"index" json:"timestamp"`
	Principal string         `gorm:"index" json:"principal"`
	Type      string         `gorm:"index" json:"type"`
	Entity    string         `gorm:"index" json:"entity"`
	EntityID  int64          `json:"entityId"`
	Data      datatypes.JSON `json:"data,omitempty"`
}

// TableName implements the gorm.Tabler interface
func (AuditEvent) TableName() string { return "audit_event" }

// AuditEventColumns is the column mapping used to sort audit listings
var AuditEventColumns = Columns{
	{Field: "id", Name: "id", Type: ColumnBigInt},
	{Field: "timestamp", Name: "timestamp", Type: ColumnTimestamp},
	{Field: "principal", Name: "principal", Type: ColumnText},
	{Field: "type", Name: "type", Type: ColumnText},
	{Field: "entity", Name: "entity", Type: ColumnText},
	{Field: "entityId", Name: "entity_id", Type: ColumnBigInt},
}

// AuditEventsStore persists and lists audit events
type AuditEventsStore interface {
	Add(ctx context.Context, event AuditEvent) error
	List(ctx context.Context, pageable Pageable) (Page[AuditEvent], error)
}
