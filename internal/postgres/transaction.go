package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
	"github.com/shopbridge/mollie-gateway/internal/types"
)

type txKey struct{}

// Tx is the transaction carried by a context. depth counts the open savepoints.
type Tx struct {
	*sqlx.Tx
	ID    string
	depth int
}

func GetTx(ctx context.Context) (*Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*Tx)
	return tx, ok
}

// WithTx runs fn inside a transaction. When ctx already carries one, fn runs
// inside a savepoint of it so a failing inner step only undoes its own writes.
func (db *DB) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx, ok := GetTx(ctx); ok {
		return db.withSavepoint(ctx, tx, fn)
	}

	sqlxTx, err := db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to begin transaction").
			Mark(ierr.ErrDatabase)
	}

	tx := &Tx{Tx: sqlxTx, ID: types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TX)}
	log := db.logger.With("tx_id", tx.ID, "request_id", types.GetRequestID(ctx))
	log.Debugw("transaction started")

	defer func() {
		if r := recover(); r != nil {
			log.Errorw("panic in transaction", "panic", r)
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		log.Warnw("transaction rolled back", "error", err)
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.WithSecondaryError(err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to commit transaction").
			Mark(ierr.ErrDatabase)
	}
	log.Debugw("transaction committed")
	return nil
}

func (db *DB) withSavepoint(ctx context.Context, tx *Tx, fn func(ctx context.Context) error) error {
	tx.depth++
	defer func() { tx.depth-- }()
	savepoint := fmt.Sprintf("sp_%d", tx.depth)

	if _, err := tx.ExecContext(ctx, "SAVEPOINT "+savepoint); err != nil {
		return ierr.WithError(err).
			WithHintf("Failed to create savepoint %s", savepoint).
			Mark(ierr.ErrDatabase)
	}

	if err := fn(ctx); err != nil {
		db.logger.Debugw("rolling back to savepoint", "tx_id", tx.ID, "savepoint", savepoint)
		if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+savepoint); rbErr != nil {
			return errors.WithSecondaryError(err, rbErr)
		}
		return err
	}

	if _, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+savepoint); err != nil {
		return ierr.WithError(err).
			WithHintf("Failed to release savepoint %s", savepoint).
			Mark(ierr.ErrDatabase)
	}
	return nil
}
