package repository

import (
	"context"

	"petshop_tycoon/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ClickLogRepository пишет аудит кликов. Записи не участвуют в расчётах,
// поэтому вставка идёт вне транзакции экономики.
type ClickLogRepository struct {
	db *pgxpool.Pool
}

func NewClickLogRepository(db *pgxpool.Pool) *ClickLogRepository {
	return &ClickLogRepository{db: db}
}

func (r *ClickLogRepository) Create(ctx context.Context, l *domain.ClickLog) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO click_logs (user_id, clicks, crystals_earned, xp_earned)
		 VALUES ($1, $2, $3, $4)`,
		l.UserID, l.Clicks, l.CrystalsEarned, l.XPEarned)
	return err
}

// GetRecent возвращает последние записи аудита (для админки)
func (r *ClickLogRepository) GetRecent(ctx context.Context, limit int) ([]*domain.ClickLog, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, clicks, crystals_earned, xp_earned, created_at
		 FROM click_logs
		 ORDER BY created_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.ClickLog
	for rows.Next() {
		var l domain.ClickLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Clicks, &l.CrystalsEarned, &l.XPEarned, &l.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &l)
	}
	return res, rows.Err()
}
