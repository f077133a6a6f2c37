package service

import (
	"context"

	"petshop_tycoon/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrAccessoryNotOwned = precondition("Аксессуар не найден в коллекции")

// AccessoryService надевает и снимает аксессуары, поддерживая инвариант
// "не больше одного надетого на категорию"
type AccessoryService struct {
	db          *pgxpool.Pool
	accessories *repository.AccessoryRepository
}

func NewAccessoryService(db *pgxpool.Pool) *AccessoryService {
	return &AccessoryService{
		db:          db,
		accessories: repository.NewAccessoryRepository(db),
	}
}

type EquipResult struct {
	AccessoryID int64 `json:"accessory_id"`
	IsEquipped  bool  `json:"is_equipped"`
}

// Equip меняет состояние аксессуара. Без явного флага состояние
// переключается. Надевание сначала снимает всё в той же категории.
func (s *AccessoryService) Equip(ctx context.Context, userID, accessoryID int64, equip *bool) (*EquipResult, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ownership, category, err := s.accessories.GetOwnershipTx(ctx, tx, userID, accessoryID)
	if err != nil {
		if err == repository.ErrNotOwned {
			return nil, ErrAccessoryNotOwned
		}
		return nil, err
	}

	target := !ownership.IsEquipped
	if equip != nil {
		target = *equip
	}

	if target {
		if err := s.accessories.UnequipCategoryTx(ctx, tx, userID, category); err != nil {
			return nil, err
		}
	}
	if err := s.accessories.SetEquippedTx(ctx, tx, ownership.ID, target); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &EquipResult{AccessoryID: accessoryID, IsEquipped: target}, nil
}
