package repo

import (
	"context"

	dom "github.com/Selalualwayskadangkidding/dn-tracker/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CharacterRepo provides character persistence.
type CharacterRepo interface {
	ListByUser(ctx context.Context, userID int64) ([]dom.Character, error)
	Create(ctx context.Context, userID int64, name, class string) (dom.Character, error)
}

type PGCharacterRepo struct {
	db *pgxpool.Pool
}

func NewPGCharacterRepo(db *pgxpool.Pool) *PGCharacterRepo {
	return &PGCharacterRepo{db: db}
}

func (r *PGCharacterRepo) ListByUser(ctx context.Context, userID int64) ([]dom.Character, error) {
	query := `
		SELECT id, user_id, name, class, created_at
		FROM characters WHERE user_id = $1 ORDER BY name, id`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Character
	for rows.Next() {
		var c dom.Character
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Class, &c.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *PGCharacterRepo) Create(ctx context.Context, userID int64, name, class string) (dom.Character, error) {
	query := `
		INSERT INTO characters (user_id, name, class)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, name, class, created_at`
	var c dom.Character
	err := r.db.QueryRow(ctx, query, userID, name, class).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Class, &c.CreatedAt,
	)
	return c, err
}
