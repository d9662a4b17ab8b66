package storage

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/relaxedbase/relaxedbase/storage/model"
)

type txContextKey struct{}

// TxManager begins request scoped transactions
type TxManager struct {
	db *gorm.DB
}

// Begin starts a transaction and returns a context carrying it. All storage
// calls made with the returned context use the transaction.
func (m *TxManager) Begin(ctx context.Context) (context.Context, model.Tx, error) {
	tx := m.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return ctx, nil, errors.Wrap(tx.Error, "failed to begin transaction")
	}
	return context.WithValue(ctx, txContextKey{}, tx), gormTx{db: tx}, nil
}

type gormTx struct {
	db *gorm.DB
}

// Commit implements the model.Tx interface
func (t gormTx) Commit() error {
	return errors.WithStack(t.db.Commit().Error)
}

// Rollback implements the model.Tx interface
func (t gormTx) Rollback() error {
	return errors.WithStack(t.db.Rollback().Error)
}

// conn returns the transaction carried by ctx, or db bound to ctx if there
// is none
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}
