package service

import (
	"context"
	"time"

	"petshop_tycoon/internal/economy"
	"petshop_tycoon/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChestService - ежедневный сундук со стриком
type ChestService struct {
	db      *pgxpool.Pool
	players *repository.PlayerRepository
}

func NewChestService(db *pgxpool.Pool) *ChestService {
	return &ChestService{
		db:      db,
		players: repository.NewPlayerRepository(db),
	}
}

type ChestResult struct {
	CrystalsEarned int64   `json:"crystals_earned"`
	StreakDays     int     `json:"streak_days"`
	BonusStones    int64   `json:"bonus_stones"`
	Milestone      *int    `json:"milestone,omitempty"` // значение стрика, если выпал бонус
	Crystals       float64 `json:"crystals"`
	Stones         int64   `json:"stones"`
}

// ClaimChest выдаёт дневной сундук. Идемпотентность по календарному дню UTC
// гарантирует блокировка строки: повторный запрос того же дня видит уже
// записанный last_chest_claim и отклоняется.
func (s *ChestService) ClaimChest(ctx context.Context, userID int64) (*ChestResult, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	p, err := s.players.GetForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if p.IsBanned {
		return nil, ErrBanned
	}

	now := time.Now()
	if !economy.CanClaimChest(p.LastChestClaim, now) {
		return nil, &PreconditionError{
			Message: "Сундук уже открыт сегодня! Приходи завтра",
			Hint: map[string]interface{}{
				"nextChestIn": economy.SecondsToUTCMidnight(now),
			},
		}
	}

	streak := economy.NextStreak(p.LastStreakDate, p.StreakDays, now)
	bonus := economy.StreakBonus(streak)
	base := economy.ChestCrystals()

	p.Crystals += float64(base)
	p.TotalCrystalsEarned += float64(base)
	p.Stones += bonus
	p.StreakDays = streak
	p.LastChestClaim = &now
	today := economy.UTCDate(now)
	p.LastStreakDate = &today
	p.LastActiveAt = now

	if err := s.players.SaveEconomyTx(ctx, tx, p); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	result := &ChestResult{
		CrystalsEarned: base,
		StreakDays:     streak,
		BonusStones:    bonus,
		Crystals:       p.Crystals,
		Stones:         p.Stones,
	}
	if bonus > 0 {
		m := streak
		result.Milestone = &m
	}
	return result, nil
}
