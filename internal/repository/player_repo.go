package repository

import (
	"context"
	"errors"

	"petshop_tycoon/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrPlayerNotFound = errors.New("player not found")

const playerColumns = `id, tg_id, COALESCE(username, ''), COALESCE(first_name, ''), created_at,
	crystals, diamonds, stones, xp, level, passive_rate,
	last_passive_claim, last_chest_claim, last_active_at, last_streak_date,
	streak_days, total_clicks, total_crystals_earned, is_banned`

type PlayerRepository struct {
	db *pgxpool.Pool
}

func NewPlayerRepository(db *pgxpool.Pool) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func scanPlayer(row pgx.Row) (*domain.Player, error) {
	var p domain.Player
	err := row.Scan(
		&p.ID, &p.TgID, &p.Username, &p.FirstName, &p.CreatedAt,
		&p.Crystals, &p.Diamonds, &p.Stones, &p.XP, &p.Level, &p.PassiveRate,
		&p.LastPassiveClaim, &p.LastChestClaim, &p.LastActiveAt, &p.LastStreakDate,
		&p.StreakDays, &p.TotalClicks, &p.TotalCrystalsEarned, &p.IsBanned,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PlayerRepository) GetByTgID(ctx context.Context, tgID int64) (*domain.Player, error) {
	return scanPlayer(r.db.QueryRow(ctx,
		`SELECT `+playerColumns+` FROM players WHERE tg_id = $1`, tgID))
}

func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (*domain.Player, error) {
	return scanPlayer(r.db.QueryRow(ctx,
		`SELECT `+playerColumns+` FROM players WHERE id = $1`, id))
}

// GetForUpdate блокирует строку игрока до конца транзакции. Все мутации
// экономики читают игрока только так, иначе конкурентные запросы теряют
// обновления друг друга.
func (r *PlayerRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.Player, error) {
	return scanPlayer(tx.QueryRow(ctx,
		`SELECT `+playerColumns+` FROM players WHERE id = $1 FOR UPDATE`, id))
}

func (r *PlayerRepository) Create(ctx context.Context, p *domain.Player) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO players (tg_id, username, first_name, level, last_passive_claim, last_active_at)
		 VALUES ($1, $2, $3, 1, NOW(), NOW())
		 RETURNING id, created_at, level, last_passive_claim, last_active_at`,
		p.TgID, p.Username, p.FirstName,
	).Scan(&p.ID, &p.CreatedAt, &p.Level, &p.LastPassiveClaim, &p.LastActiveAt)
}

// SaveEconomyTx пишет обратно экономические поля внутри транзакции
func (r *PlayerRepository) SaveEconomyTx(ctx context.Context, tx pgx.Tx, p *domain.Player) error {
	_, err := tx.Exec(ctx,
		`UPDATE players
		 SET crystals = $1, diamonds = $2, stones = $3, xp = $4, level = $5,
			 passive_rate = $6, last_passive_claim = $7, last_chest_claim = $8,
			 last_active_at = $9, last_streak_date = $10, streak_days = $11,
			 total_clicks = $12, total_crystals_earned = $13
		 WHERE id = $14`,
		p.Crystals, p.Diamonds, p.Stones, p.XP, p.Level,
		p.PassiveRate, p.LastPassiveClaim, p.LastChestClaim,
		p.LastActiveAt, p.LastStreakDate, p.StreakDays,
		p.TotalClicks, p.TotalCrystalsEarned, p.ID)
	return err
}

func (r *PlayerRepository) SetBanned(ctx context.Context, id int64, banned bool) error {
	ct, err := r.db.Exec(ctx, `UPDATE players SET is_banned = $1 WHERE id = $2`, banned, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrPlayerNotFound
	}
	return nil
}

// LeaderboardEntry - строка таблицы лидеров
type LeaderboardEntry struct {
	Rank                int     `json:"rank"`
	Username            string  `json:"username"`
	FirstName           string  `json:"first_name"`
	Level               int     `json:"level"`
	TotalCrystalsEarned float64 `json:"total_crystals_earned"`
}

// GetTopByEarnings возвращает топ игроков по заработанным кристаллам
func (r *PlayerRepository) GetTopByEarnings(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT COALESCE(username, ''), COALESCE(first_name, ''), level, total_crystals_earned
		 FROM players
		 WHERE NOT is_banned
		 ORDER BY total_crystals_earned DESC, id
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []LeaderboardEntry
	rank := 1
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.Username, &e.FirstName, &e.Level, &e.TotalCrystalsEarned); err != nil {
			return nil, err
		}
		e.Rank = rank
		res = append(res, e)
		rank++
	}
	return res, rows.Err()
}

// Stats - сводка по всем игрокам для админки
type Stats struct {
	TotalPlayers     int64   `json:"total_players"`
	ActiveToday      int64   `json:"active_today"`
	BannedPlayers    int64   `json:"banned_players"`
	TotalCrystals    float64 `json:"total_crystals"`
	TotalClicksToday int64   `json:"total_clicks_today"`
}

func (r *PlayerRepository) GetStats(ctx context.Context) (*Stats, error) {
	s := &Stats{}
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE last_active_at >= date_trunc('day', NOW() AT TIME ZONE 'utc')),
		       COUNT(*) FILTER (WHERE is_banned),
		       COALESCE(SUM(crystals), 0)
		FROM players`).Scan(&s.TotalPlayers, &s.ActiveToday, &s.BannedPlayers, &s.TotalCrystals)
	if err != nil {
		return nil, err
	}

	_ = r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(clicks), 0) FROM click_logs
		WHERE created_at >= date_trunc('day', NOW() AT TIME ZONE 'utc')`).Scan(&s.TotalClicksToday)

	return s, nil
}
