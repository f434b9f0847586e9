package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AdminRepo triggers the snapshot/reset procedures that live in the database.
// Both are idempotent; each returns how many rows it touched.
type AdminRepo interface {
	Snapshot(ctx context.Context, userID int64) (int, error)
	Reset(ctx context.Context, userID int64) (int, error)
}

type PGAdminRepo struct {
	db *pgxpool.Pool
}

func NewPGAdminRepo(db *pgxpool.Pool) *PGAdminRepo {
	return &PGAdminRepo{db: db}
}

// Snapshot appends today's progress rows to the activity log.
func (r *PGAdminRepo) Snapshot(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT dn_snapshot_progress($1)`, userID).Scan(&n)
	return n, err
}

// Reset expires stale blessings and clears daily fields.
func (r *PGAdminRepo) Reset(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT dn_reset_progress($1)`, userID).Scan(&n)
	return n, err
}
