package service

import (
	"context"
	"fmt"

	"petshop_tycoon/internal/domain"
	"petshop_tycoon/internal/economy"
	"petshop_tycoon/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ItemType - вид покупаемой позиции
type ItemType string

const (
	ItemTypeShopItem  ItemType = "shop_item"
	ItemTypeAccessory ItemType = "accessory"
)

var (
	ErrItemNotFound    = repository.ErrShopItemNotFound
	ErrUnknownItemType = precondition("Неизвестный тип товара")
)

// ShopService проводит покупки: списание, эффект и запись о покупке
// выполняются одной транзакцией, частичных состояний не бывает.
type ShopService struct {
	db          *pgxpool.Pool
	players     *repository.PlayerRepository
	shop        *repository.ShopRepository
	accessories *repository.AccessoryRepository
}

func NewShopService(db *pgxpool.Pool) *ShopService {
	return &ShopService{
		db:          db,
		players:     repository.NewPlayerRepository(db),
		shop:        repository.NewShopRepository(db),
		accessories: repository.NewAccessoryRepository(db),
	}
}

type PurchaseResult struct {
	ItemType     ItemType `json:"item_type"`
	ItemID       int64    `json:"item_id"`
	Quantity     int      `json:"quantity"`
	CrystalsPaid int64    `json:"crystals_paid"`
	DiamondsPaid int64    `json:"diamonds_paid"`
	Crystals     float64  `json:"crystals"`
	Diamonds     int64    `json:"diamonds"`
	PassiveRate  float64  `json:"passive_rate"`
}

// priced - общая "покупаемость" обоих видов товара
type priced struct {
	crystalPrice  int64
	diamondPrice  int64
	requiredLevel int
}

func (s *ShopService) Purchase(ctx context.Context, userID int64, itemType ItemType, itemID int64, quantity int) (*PurchaseResult, error) {
	switch itemType {
	case ItemTypeShopItem:
		if quantity < 1 {
			quantity = 1
		}
	case ItemTypeAccessory:
		quantity = 1
	default:
		return nil, ErrUnknownItemType
	}

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

	var (
		cost priced
		item *domain.ShopItem
		acc  *domain.Accessory
	)

	if itemType == ItemTypeShopItem {
		item, err = s.shop.GetByID(ctx, itemID)
		if err != nil {
			return nil, err
		}
		if !item.IsActive {
			return nil, repository.ErrShopItemNotFound
		}
		cost = priced{
			crystalPrice:  economy.DiscountedPrice(item.CrystalPrice, item.IsGolden, item.DiscountPercent) * int64(quantity),
			diamondPrice:  economy.DiscountedPrice(item.DiamondPrice, item.IsGolden, item.DiscountPercent) * int64(quantity),
			requiredLevel: item.RequiredLevel,
		}
	} else {
		acc, err = s.accessories.GetByID(ctx, itemID)
		if err != nil {
			if err == repository.ErrAccessoryNotFound {
				return nil, ErrItemNotFound
			}
			return nil, err
		}
		cost = priced{
			crystalPrice:  acc.CrystalPrice,
			diamondPrice:  acc.DiamondPrice,
			requiredLevel: acc.RequiredLevel,
		}
	}

	if p.Level < cost.requiredLevel {
		return nil, precondition(fmt.Sprintf("Недостаточный уровень! Требуется уровень %d", cost.requiredLevel))
	}

	if itemType == ItemTypeAccessory {
		owned, err := s.accessories.IsOwnedTx(ctx, tx, userID, itemID)
		if err != nil {
			return nil, err
		}
		if owned {
			return nil, precondition("Аксессуар уже куплен")
		}
	}

	// Обе валютные ноги проверяются до списания: баланс не может уйти в минус
	if p.Crystals < float64(cost.crystalPrice) {
		return nil, precondition(fmt.Sprintf("Недостаточно кристаллов! Нужно: %d, есть: %d",
			cost.crystalPrice, int64(p.Crystals)))
	}
	if p.Diamonds < cost.diamondPrice {
		return nil, precondition(fmt.Sprintf("Недостаточно алмазов! Нужно: %d, есть: %d",
			cost.diamondPrice, p.Diamonds))
	}

	p.Crystals -= float64(cost.crystalPrice)
	p.Diamonds -= cost.diamondPrice

	if item != nil && item.EffectType != nil && *item.EffectType == domain.EffectPassiveRate {
		// эффект постоянный и складывается между покупками
		p.PassiveRate += item.EffectValue * float64(quantity)
	}

	if acc != nil {
		if err := s.accessories.GrantTx(ctx, tx, userID, acc.ID, false); err != nil {
			return nil, err
		}
	}

	purchase := &domain.Purchase{
		UserID:       userID,
		ItemType:     string(itemType),
		ItemID:       itemID,
		Quantity:     quantity,
		CrystalsPaid: cost.crystalPrice,
		DiamondsPaid: cost.diamondPrice,
	}
	if err := s.shop.RecordPurchaseTx(ctx, tx, purchase); err != nil {
		return nil, err
	}

	if err := s.players.SaveEconomyTx(ctx, tx, p); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &PurchaseResult{
		ItemType:     itemType,
		ItemID:       itemID,
		Quantity:     quantity,
		CrystalsPaid: cost.crystalPrice,
		DiamondsPaid: cost.diamondPrice,
		Crystals:     p.Crystals,
		Diamonds:     p.Diamonds,
		PassiveRate:  p.PassiveRate,
	}, nil
}
