package composables

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/ZSuraj/abcd-sub000/pkg/constants"
	"github.com/ZSuraj/abcd-sub000/pkg/repo"
)

var (
	ErrNoTx   = errors.New("no transaction found in context")
	ErrNoPool = errors.New("no database pool found in context")
)

func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, constants.TxKey, tx)
}

// UseTx returns the transaction stored in ctx, falling back to the pool.
func UseTx(ctx context.Context) (repo.Tx, error) {
	if tx, ok := ctx.Value(constants.TxKey).(pgx.Tx); ok && tx != nil {
		return tx, nil
	}
	return UsePool(ctx)
}

func WithPool(ctx context.Context, pool repo.Pool) context.Context {
	return context.WithValue(ctx, constants.PoolKey, pool)
}

func UsePool(ctx context.Context) (repo.Pool, error) {
	pool, ok := ctx.Value(constants.PoolKey).(repo.Pool)
	if !ok || pool == nil {
		return nil, ErrNoPool
	}
	return pool, nil
}

// InTx runs fn inside a transaction. An enclosing transaction is reused.
func InTx(ctx context.Context, fn func(context.Context) error) error {
	if existing, ok := ctx.Value(constants.TxKey).(pgx.Tx); ok && existing != nil {
		return fn(ctx)
	}

	pool, err := UsePool(ctx)
	if err != nil {
		return err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}

	if err := fn(WithTx(ctx, tx)); err != nil {
		if rErr := tx.Rollback(ctx); rErr != nil {
			return errors.Join(err, rErr)
		}
		return err
	}
	return tx.Commit(ctx)
}

func InTxResult[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	var out T
	err := InTx(ctx, func(txCtx context.Context) error {
		var innerErr error
		out, innerErr = fn(txCtx)
		return innerErr
	})
	return out, err
}

// Transactor abstracts how a unit of work is made atomic by a storage backend.
type Transactor interface {
	InTx(ctx context.Context, fn func(context.Context) error) error
}

// PoolTransactor opens pgx transactions on a fixed pool.
type PoolTransactor struct {
	Pool repo.Pool
}

func (p PoolTransactor) InTx(ctx context.Context, fn func(context.Context) error) error {
	if _, err := UsePool(ctx); err != nil && p.Pool != nil {
		ctx = WithPool(ctx, p.Pool)
	}
	return InTx(ctx, fn)
}
