package repo

import (
	"context"
	"time"

	dom "github.com/Selalualwayskadangkidding/dn-tracker/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LogRepo reads the append-only activity log. Entries are written by the
// snapshot/reset procedures, never by the application.
type LogRepo interface {
	Range(ctx context.Context, userID int64, from, to *time.Time) ([]dom.LogEntry, error)
}

type PGLogRepo struct {
	db *pgxpool.Pool
}

func NewPGLogRepo(db *pgxpool.Pool) *PGLogRepo {
	return &PGLogRepo{db: db}
}

// Range returns entries with logged_at inside [from, to], newest first.
// A nil bound is open.
func (r *PGLogRepo) Range(ctx context.Context, userID int64, from, to *time.Time) ([]dom.LogEntry, error) {
	query := `
		SELECT id, user_id, logged_at, details
		FROM activity_log
		WHERE user_id = $1
		  AND ($2::timestamptz IS NULL OR logged_at >= $2)
		  AND ($3::timestamptz IS NULL OR logged_at <= $3)
		ORDER BY logged_at DESC`
	rows, err := r.db.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.LogEntry
	for rows.Next() {
		var e dom.LogEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.LoggedAt, &e.Details); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}
