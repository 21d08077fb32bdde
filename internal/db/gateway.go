package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Gateway is the persistence surface consumed by every service.
type Gateway struct {
	Pool *pgxpool.Pool
}

func NewGateway(pool *pgxpool.Pool) *Gateway {
	return &Gateway{Pool: pool}
}

// Query runs a read statement. Callers must close the returned rows.
func (g *Gateway) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return g.Pool.Query(ctx, sql, args...)
}

// Exec runs a write statement and returns the number of affected rows.
func (g *Gateway) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	tag, err := g.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Insert runs an INSERT ... RETURNING <id> statement and returns the new id.
func (g *Gateway) Insert(ctx context.Context, sql string, args ...any) (int, error) {
	var id int
	if err := g.Pool.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// WithTx runs fn inside a transaction. A nil return commits; an error or a
// panic rolls back.
func (g *Gateway) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, err := g.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (g *Gateway) Ping(ctx context.Context) error {
	return g.Pool.Ping(ctx)
}

func (g *Gateway) Close() {
	g.Pool.Close()
}
