package service

import (
	"context"
	"time"

	"petshop_tycoon/internal/domain"
	"petshop_tycoon/internal/economy"
	"petshop_tycoon/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Внутренний ключ аксессуара, который надевается сам при выдаче
const autoEquipAccessory = "santa_hat"

// ClickService превращает тап в кристаллы и опыт
type ClickService struct {
	db          *pgxpool.Pool
	players     *repository.PlayerRepository
	accessories *repository.AccessoryRepository
}

func NewClickService(db *pgxpool.Pool) *ClickService {
	return &ClickService{
		db:          db,
		players:     repository.NewPlayerRepository(db),
		accessories: repository.NewAccessoryRepository(db),
	}
}

// ClickResult - новое состояние игрока после клика
type ClickResult struct {
	Crystals       float64           `json:"crystals"`
	XP             float64           `json:"xp"`
	Level          int               `json:"level"`
	XPForNext      float64           `json:"xp_for_next"`
	CrystalsEarned float64           `json:"crystals_earned"`
	XPEarned       float64           `json:"xp_earned"`
	LeveledUp      bool              `json:"leveled_up"`
	NewAccessory   *domain.Accessory `json:"new_accessory,omitempty"`
}

// Click начисляет награду за один тап. Вся цепочка чтение-расчёт-запись
// выполняется под блокировкой строки игрока, поэтому конкурентные клики
// не теряют начисления.
func (s *ClickService) Click(ctx context.Context, userID int64) (*ClickResult, error) {
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

	newXP, newLevel, leveledUp := economy.ApplyClick(p.XP, p.Level)

	p.Crystals += economy.ClickCrystals
	p.TotalCrystalsEarned += economy.ClickCrystals
	p.TotalClicks++
	p.XP = newXP
	p.Level = newLevel
	p.LastActiveAt = time.Now()

	result := &ClickResult{
		CrystalsEarned: economy.ClickCrystals,
		XPEarned:       economy.ClickXP,
		LeveledUp:      leveledUp,
	}

	if leveledUp && economy.IsAccessoryMilestone(newLevel) {
		acc, err := s.grantMilestoneAccessory(ctx, tx, p.ID, newLevel)
		if err != nil {
			return nil, err
		}
		result.NewAccessory = acc
	}

	if err := s.players.SaveEconomyTx(ctx, tx, p); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	result.Crystals = p.Crystals
	result.XP = p.XP
	result.Level = p.Level
	result.XPForNext = economy.XPForNextLevel(p.Level)
	return result, nil
}

// grantMilestoneAccessory выдаёт за уровень самый "старший" подходящий
// аксессуар, если игрок им ещё не владеет
func (s *ClickService) grantMilestoneAccessory(ctx context.Context, tx pgx.Tx, userID int64, level int) (*domain.Accessory, error) {
	acc, err := s.accessories.GetMilestoneForLevelTx(ctx, tx, level)
	if err != nil {
		if err == repository.ErrAccessoryNotFound {
			return nil, nil
		}
		return nil, err
	}

	owned, err := s.accessories.IsOwnedTx(ctx, tx, userID, acc.ID)
	if err != nil {
		return nil, err
	}
	if owned {
		return nil, nil
	}

	equip := acc.Name == autoEquipAccessory
	if equip {
		// не нарушаем "один надетый аксессуар на категорию"
		if err := s.accessories.UnequipCategoryTx(ctx, tx, userID, acc.Category); err != nil {
			return nil, err
		}
	}
	if err := s.accessories.GrantTx(ctx, tx, userID, acc.ID, equip); err != nil {
		return nil, err
	}
	return acc, nil
}
