package service

import (
	"context"
	"math"
	"time"

	"petshop_tycoon/internal/economy"
	"petshop_tycoon/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PassiveService конвертирует офлайн-время в кристаллы
type PassiveService struct {
	db      *pgxpool.Pool
	players *repository.PlayerRepository
}

func NewPassiveService(db *pgxpool.Pool) *PassiveService {
	return &PassiveService{
		db:      db,
		players: repository.NewPlayerRepository(db),
	}
}

type PassiveResult struct {
	CrystalsEarned float64 `json:"crystals_earned"`
	HoursOffline   float64 `json:"hours_offline"` // округлено до 0.1
	XPPenalty      float64 `json:"xp_penalty"`
	HadPenalty     bool    `json:"had_penalty"`
	Crystals       float64 `json:"crystals"`
	XP             float64 `json:"xp"`
}

// ClaimPassive начисляет пассивный доход с момента прошлого клейма.
// Часы офлайна капятся, за долгое отсутствие срезается опыт. Окно
// накопления считается от last_passive_claim, а штраф - от last_active_at:
// это разные часы, штраф может сработать и при свежем клейме.
func (s *PassiveService) ClaimPassive(ctx context.Context, userID int64) (*PassiveResult, error) {
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
	elapsed := now.Sub(p.LastPassiveClaim)
	if elapsed < economy.PassiveMinClaimInterval {
		return nil, &PreconditionError{
			Message: "Прошло слишком мало времени! Возвращайся позже",
			Hint: map[string]interface{}{
				"retryIn": int64((economy.PassiveMinClaimInterval - elapsed).Seconds()),
			},
		}
	}

	crystals, hours := economy.OfflineCrystals(p.PassiveRate, elapsed)

	result := &PassiveResult{
		CrystalsEarned: crystals,
		HoursOffline:   math.Round(hours*10) / 10,
	}

	// Штраф за 10+ дней полного бездействия
	if now.Sub(p.LastActiveAt) >= economy.InactivityPenaltyDays*24*time.Hour {
		newXP, penalty := economy.InactivityPenalty(p.XP)
		p.XP = newXP
		result.XPPenalty = penalty
		result.HadPenalty = penalty > 0
	}

	p.Crystals += crystals
	p.TotalCrystalsEarned += crystals
	p.LastPassiveClaim = now
	p.LastActiveAt = now

	if err := s.players.SaveEconomyTx(ctx, tx, p); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	result.Crystals = p.Crystals
	result.XP = p.XP
	return result, nil
}
