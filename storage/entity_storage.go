package storage

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/relaxedbase/relaxedbase/storage/model"
)

// EntityStorage implements model.Gateway for one entity type using GORM.
// Nested references are loaded through preloads and never written; only the
// foreign key columns are persisted.
type EntityStorage[E any, P model.RecordPtr[E]] struct {
	db       *gorm.DB
	preloads []string
	// afterLoad completes loaded records, e.g. with collections that are
	// not stored on the row
	afterLoad func(tx *gorm.DB, records []E) error
	// beforeDelete runs in the delete transaction before the row is removed
	beforeDelete func(tx *gorm.DB, id int64) error
}

// OwnedEntityStorage is an EntityStorage that can list the records of an owner
type OwnedEntityStorage[E any, P model.RecordPtr[E]] struct {
	*EntityStorage[E, P]
	// ownerScope returns the condition selecting the records of owner; ok is
	// false if no record can belong to owner
	ownerScope func(owner string) (scope func(*gorm.DB) *gorm.DB, ok bool)
}

// EmployeeStorage returns the Employee gateway
func (s *Storage) EmployeeStorage() *EntityStorage[model.Employee, *model.Employee] {
	return &EntityStorage[model.Employee, *model.Employee]{
		db:           s.db,
		preloads:     []string{"Position"},
		afterLoad:    attachEmployeeCollections,
		beforeDelete: orphanEmployeeReferences,
	}
}

// VacationRequestStorage returns the VacationRequest gateway. The owner key
// is matched against the owner column.
func (s *Storage) VacationRequestStorage() *OwnedEntityStorage[model.VacationRequest, *model.VacationRequest] {
	return &OwnedEntityStorage[model.VacationRequest, *model.VacationRequest]{
		EntityStorage: &EntityStorage[model.VacationRequest, *model.VacationRequest]{
			db:       s.db,
			preloads: []string{"Applicant", "StandIn"},
		},
		ownerScope: func(owner string) (func(*gorm.DB) *gorm.DB, bool) {
			return func(tx *gorm.DB) *gorm.DB {
				return tx.Where("owner = ?", owner)
			}, true
		},
	}
}

// SickLeaveStorage returns the SickLeave gateway. A sick leave has no owner
// column; the owner key is the decimal id of the referenced employee.
func (s *Storage) SickLeaveStorage() *OwnedEntityStorage[model.SickLeave, *model.SickLeave] {
	return &OwnedEntityStorage[model.SickLeave, *model.SickLeave]{
		EntityStorage: &EntityStorage[model.SickLeave, *model.SickLeave]{
			db:       s.db,
			preloads: []string{"Employee"},
		},
		ownerScope: func(owner string) (func(*gorm.DB) *gorm.DB, bool) {
			employeeID, err := strconv.ParseInt(owner, 10, 64)
			if err != nil {
				return nil, false
			}
			return func(tx *gorm.DB) *gorm.DB {
				return tx.Where("employee_id = ?", employeeID)
			}, true
		},
	}
}

// EventStorage returns the Event gateway
func (s *Storage) EventStorage() *EntityStorage[model.Event, *model.Event] {
	return &EntityStorage[model.Event, *model.Event]{
		db:       s.db,
		preloads: []string{"Participant", "Host"},
	}
}

func (s *EntityStorage[E, P]) entityName() string {
	return P(new(E)).EntityName()
}

func (s *EntityStorage[E, P]) withPreloads(tx *gorm.DB) *gorm.DB {
	for _, p := range s.preloads {
		tx = tx.Preload(p)
	}
	return tx
}

// FindAll returns one page of all records
func (s *EntityStorage[E, P]) FindAll(ctx context.Context, pageable model.Pageable) (model.Page[E], error) {
	return s.findPage(ctx, pageable, nil)
}

// FindAllByOwner returns one page of the records belonging to owner
func (s *OwnedEntityStorage[E, P]) FindAllByOwner(
	ctx context.Context, pageable model.Pageable, owner string,
) (model.Page[E], error) {
	scope, ok := s.ownerScope(owner)
	if !ok {
		pageable = pageable.Normalize()
		if _, err := orderColumns(P(new(E)).Columns(), s.entityName(), pageable.Sort); err != nil {
			return model.Page[E]{}, err
		}
		return model.Page[E]{
			Content: []E{},
			Number:  pageable.Page,
			Size:    pageable.Size,
		}, nil
	}
	return s.findPage(ctx, pageable, scope)
}

func (s *EntityStorage[E, P]) findPage(
	ctx context.Context, pageable model.Pageable, scope func(*gorm.DB) *gorm.DB,
) (model.Page[E], error) {
	pageable = pageable.Normalize()
	order, err := orderColumns(P(new(E)).Columns(), s.entityName(), pageable.Sort)
	if err != nil {
		return model.Page[E]{}, err
	}
	tx := conn(ctx, s.db)
	query := func() *gorm.DB {
		q := tx.Model(P(new(E)))
		if scope != nil {
			q = scope(q)
		}
		return q
	}

	page := model.Page[E]{
		Number: pageable.Page,
		Size:   pageable.Size,
	}
	if err = query().Count(&page.Total).Error; err != nil {
		return page, errors.Wrapf(err, "failed to count %s records", s.entityName())
	}
	content := make([]E, 0, pageable.Size)
	if err = s.withPreloads(query()).
		Order(clause.OrderBy{Columns: order}).
		Limit(pageable.Size).
		Offset(pageable.Offset()).
		Find(&content).Error; err != nil {
		return page, errors.Wrapf(err, "failed to list %s records", s.entityName())
	}
	if s.afterLoad != nil {
		if err = s.afterLoad(tx, content); err != nil {
			return page, err
		}
	}
	page.Content = content
	return page, nil
}

// FindByID returns the record with the passed id or a model.NotFoundError
func (s *EntityStorage[E, P]) FindByID(ctx context.Context, id int64) (*E, error) {
	tx := conn(ctx, s.db)
	var e E
	if err := s.withPreloads(tx).First(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.NotFoundErrorFmt("%s not found: %d", s.entityName(), id)
		}
		return nil, errors.Wrapf(err, "failed to load %s %d", s.entityName(), id)
	}
	if s.afterLoad != nil {
		records := []E{e}
		if err := s.afterLoad(tx, records); err != nil {
			return nil, err
		}
		e = records[0]
	}
	return &e, nil
}

// Save inserts the record if it has no id and updates it otherwise. An
// update of an id without row inserts it with that id.
func (s *EntityStorage[E, P]) Save(ctx context.Context, e *E) (*E, error) {
	P(e).SyncReferences()
	if err := conn(ctx, s.db).Omit(clause.Associations).Save(e).Error; err != nil {
		return nil, errors.Wrapf(err, "failed to save %s", s.entityName())
	}
	return e, nil
}

// DeleteByID deletes the record; deleting an absent id is not an error
func (s *EntityStorage[E, P]) DeleteByID(ctx context.Context, id int64) error {
	err := conn(ctx, s.db).Transaction(
		func(tx *gorm.DB) error {
			if s.beforeDelete != nil {
				if err := s.beforeDelete(tx, id); err != nil {
					return err
				}
			}
			return tx.Delete(P(new(E)), id).Error
		},
	)
	return errors.Wrapf(err, "failed to delete %s %d", s.entityName(), id)
}

// Count returns the number of records
func (s *EntityStorage[E, P]) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := conn(ctx, s.db).Model(P(new(E))).Count(&count).Error; err != nil {
		return 0, errors.Wrapf(err, "failed to count %s records", s.entityName())
	}
	return count, nil
}

// orderColumns maps the sort orders onto the columns of the mapping table.
// The id column is appended as tie breaker to keep paging stable.
func orderColumns(columns model.Columns, entity string, sort []model.Order) ([]clause.OrderByColumn, error) {
	if len(sort) == 0 {
		sort = []model.Order{{Property: "id"}}
	}
	out := make([]clause.OrderByColumn, 0, len(sort)+1)
	byID := false
	for _, o := range sort {
		c, ok := columns.Lookup(o.Property)
		if !ok {
			return nil, model.UnknownColumnError{
				Entity: entity,
				Field:  o.Property,
			}
		}
		byID = byID || c.Name == "id"
		out = append(
			out, clause.OrderByColumn{
				Column: clause.Column{Name: c.Name},
				Desc:   o.Desc,
			},
		)
	}
	if !byID {
		out = append(out, clause.OrderByColumn{Column: clause.Column{Name: "id"}})
	}
	return out, nil
}
