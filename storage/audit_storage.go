package storage

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/relaxedbase/relaxedbase/storage/model"
)

// AuditStorage returns an AuditStorage
func (s *Storage) AuditStorage() *AuditStorage {
	return &AuditStorage{db: s.db}
}

// AuditStorage implements model.AuditEventsStore using GORM
type AuditStorage struct {
	db *gorm.DB
}

// Add stores the event, inside the transaction of ctx if there is one
func (s *AuditStorage) Add(ctx context.Context, event model.AuditEvent) error {
	event.ID = 0
	return errors.Wrap(conn(ctx, s.db).Create(&event).Error, "failed to store audit event")
}

// List returns one page of audit events
func (s *AuditStorage) List(ctx context.Context, pageable model.Pageable) (model.Page[model.AuditEvent], error) {
	pageable = pageable.Normalize()
	if len(pageable.Sort) == 0 {
		pageable.Sort = []model.Order{
			{
				Property: "timestamp",
				Desc:     true,
			},
		}
	}
	order, err := orderColumns(model.AuditEventColumns, "audit", pageable.Sort)
	if err != nil {
		return model.Page[model.AuditEvent]{}, err
	}
	tx := conn(ctx, s.db)
	page := model.Page[model.AuditEvent]{
		Number: pageable.Page,
		Size:   pageable.Size,
	}
	if err = tx.Model(&model.AuditEvent{}).Count(&page.Total).Error; err != nil {
		return page, errors.Wrap(err, "failed to count audit events")
	}
	page.Content = make([]model.AuditEvent, 0, pageable.Size)
	err = tx.Model(&model.AuditEvent{}).
		Order(clause.OrderBy{Columns: order}).
		Limit(pageable.Size).
		Offset(pageable.Offset()).
		Find(&page.Content).Error
	return page, errors.Wrap(err, "failed to list audit events")
}
