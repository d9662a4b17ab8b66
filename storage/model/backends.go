package model

import (
	"context"
)

// Gateway is the persistence interface shared by all entities
type Gateway[E any] interface {
	// FindAll returns one page of all records
	FindAll(ctx context.Context, pageable Pageable) (Page[E], error)
	// FindByID returns the record or a NotFoundError
	FindByID(ctx context.Context, id int64) (*E, error)
	// Save inserts or updates the record and returns it with its id set
	Save(ctx context.Context, e *E) (*E, error)
	// DeleteByID deletes the record; deleting an absent id is not an error
	DeleteByID(ctx context.Context, id int64) error
	// Count returns the number of records
	Count(ctx context.Context) (int64, error)
}

// OwnedGateway is a Gateway that can additionally list the records
// belonging to an owner key
type OwnedGateway[E any] interface {
	Gateway[E]
	FindAllByOwner(ctx context.Context, pageable Pageable, owner string) (Page[E], error)
}

// Store types per entity
type (
	EmployeeStore        = Gateway[Employee]
	VacationRequestStore = OwnedGateway[VacationRequest]
	SickLeaveStore       = OwnedGateway[SickLeave]
	EventStore           = Gateway[Event]
)

// Tx is an open database transaction
type Tx interface {
	Commit() error
	Rollback() error
}

// TxManager begins transactions. The returned context carries the
// transaction; gateway calls made with it take part in the transaction.
type TxManager interface {
	Begin(ctx context.Context) (context.Context, Tx, error)
}

// Backends groups all storage interfaces used by the application.
// It provides a single struct that can be passed around instead of
// multiple return values for each storage backend.
type Backends struct {
	Employees        EmployeeStore
	VacationRequests VacationRequestStore
	SickLeaves       SickLeaveStore
	Events           EventStore
	Users            UsersStore
	Audits           AuditEventsStore
	Tx               TxManager
	// Ping checks database connectivity
	Ping func(ctx context.Context) error
}
