package storage

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/relaxedbase/relaxedbase/storage/model"
)

// Storage is a GORM-based storage implementation
type Storage struct {
	db         *gorm.DB
	userParams Argon2idParams
}

var models = []any{
	&model.Employee{},
	&model.VacationRequest{},
	&model.SickLeave{},
	&model.Event{},
	&model.User{},
	&model.AuditEvent{},
}

// NewStorage creates a new GORM-based storage
func NewStorage(config Config) (*Storage, error) {
	db, err := Connect(config)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	// Auto migrate the schemas
	if err = db.AutoMigrate(models...); err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}

	// Fill user hash params with defaults if zero values
	params := config.UsersHash
	if params.Time == 0 {
		params = defaultArgon2idParams()
	}

	return &Storage{
		db:         db,
		userParams: params,
	}, nil
}

// DB returns the underlying connection
func (s *Storage) DB() *gorm.DB {
	return s.db
}

// Backends returns all stores grouped in a model.Backends
func (s *Storage) Backends() model.Backends {
	return model.Backends{
		Employees:        s.EmployeeStorage(),
		VacationRequests: s.VacationRequestStorage(),
		SickLeaves:       s.SickLeaveStorage(),
		Events:           s.EventStorage(),
		Users:            s.UsersStorage(),
		Audits:           s.AuditStorage(),
		Tx:               s.TxManager(),
		Ping:             s.Ping,
	}
}

// Ping checks that the database is reachable
func (s *Storage) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// TxManager returns a TxManager beginning transactions on this storage
func (s *Storage) TxManager() *TxManager {
	return &TxManager{db: s.db}
}

// Entity storages are implemented in entity_storage.go and
// employee_storage.go, users storage in users_storage.go
