package restapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/relaxedbase/relaxedbase/storage/model"
)

// transactionMiddleware runs the rest of the handler chain in one database
// transaction. The transaction is committed if the handler succeeds with a
// status below 400 and rolled back otherwise, including on panics.
func transactionMiddleware(txm model.TxManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, tx, err := txm.Begin(c.UserContext())
		if err != nil {
			return err
		}
		c.SetUserContext(ctx)
		done := false
		defer func() {
			if done {
				return
			}
			if rbErr := tx.Rollback(); rbErr != nil {
				log.WithError(rbErr).Error("failed to roll back transaction")
			}
		}()

		if err = c.Next(); err != nil {
			return err
		}
		if c.Response().StatusCode() >= fiber.StatusBadRequest {
			return nil
		}
		done = true
		return errors.Wrap(tx.Commit(), "failed to commit transaction")
	}
}
