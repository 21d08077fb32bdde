package repositories

import (
	"context"
	"hash/fnv"

	"garage-backend/internal/db"
)

// LockRepository takes transaction-scoped advisory locks. The locks are
// released automatically when the surrounding transaction commits or rolls back.
type LockRepository struct {
	DB db.DBTX
}

func NewLockRepository(db db.DBTX) *LockRepository {
	return &LockRepository{DB: db}
}

// Acquire blocks until the advisory lock for key is held
func (r *LockRepository) Acquire(ctx context.Context, key string) error {
	_, err := r.DB.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, LockID(key))
	return err
}

// LockID maps a lock name onto the bigint keyspace of pg_advisory_xact_lock
func LockID(key string) int64 {
	h := fnv.New64a()
	h.Write([]byte(key))
	return int64(h.Sum64())
}
