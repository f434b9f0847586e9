package repo

import (
	"context"
	"time"

	dom "github.com/Selalualwayskadangkidding/dn-tracker/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StateRepo reads and writes per-character-per-day progress rows. Upsert is
// insert-or-update on the (character_id, entry_date) key; the remote side
// resolves concurrent writers as last write wins.
type StateRepo interface {
	ForDay(ctx context.Context, userID int64, day time.Time) ([]dom.ProgressState, error)
	Upsert(ctx context.Context, userID int64, st dom.ProgressState) error
}

type PGStateRepo struct {
	db *pgxpool.Pool
}

func NewPGStateRepo(db *pgxpool.Pool) *PGStateRepo {
	return &PGStateRepo{db: db}
}

func (r *PGStateRepo) ForDay(ctx context.Context, userID int64, day time.Time) ([]dom.ProgressState, error) {
	query := `
		SELECT p.character_id, p.entry_date, p.daily_quest, p.nest_raid, p.world_boss, p.blessing, p.blessing_since
		FROM progress p
		JOIN characters c ON c.id = p.character_id
		WHERE c.user_id = $1 AND p.entry_date = $2`
	rows, err := r.db.Query(ctx, query, userID, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.ProgressState
	for rows.Next() {
		var st dom.ProgressState
		var daily, nest, boss, blessing string
		if err := rows.Scan(&st.CharacterID, &st.Date, &daily, &nest, &boss, &blessing, &st.BlessingSince); err != nil {
			return nil, err
		}
		st.Fields = map[dom.Field]string{
			dom.FieldDailyQuest: daily,
			dom.FieldNestRaid:   nest,
			dom.FieldWorldBoss:  boss,
			dom.FieldBlessing:   blessing,
		}
		list = append(list, st)
	}
	return list, rows.Err()
}

// Upsert writes the full field set for one character and day. The insert is
// guarded by character ownership; an unowned character yields pgx.ErrNoRows.
func (r *PGStateRepo) Upsert(ctx context.Context, userID int64, st dom.ProgressState) error {
	query := `
		INSERT INTO progress (character_id, entry_date, daily_quest, nest_raid, world_boss, blessing, blessing_since, updated_at)
		SELECT c.id, $3, $4, $5, $6, $7, $8, NOW()
		FROM characters c WHERE c.id = $1 AND c.user_id = $2
		ON CONFLICT (character_id, entry_date) DO UPDATE SET
			daily_quest = EXCLUDED.daily_quest,
			nest_raid = EXCLUDED.nest_raid,
			world_boss = EXCLUDED.world_boss,
			blessing = EXCLUDED.blessing,
			blessing_since = EXCLUDED.blessing_since,
			updated_at = NOW()`
	tag, err := r.db.Exec(ctx, query,
		st.CharacterID, userID, st.Date,
		st.Fields[dom.FieldDailyQuest],
		st.Fields[dom.FieldNestRaid],
		st.Fields[dom.FieldWorldBoss],
		st.Fields[dom.FieldBlessing],
		st.BlessingSince,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
