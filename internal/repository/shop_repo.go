package repository

import (
	"context"
	"errors"

	"petshop_tycoon/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrShopItemNotFound = errors.New("shop item not found")

type ShopRepository struct {
	db *pgxpool.Pool
}

func NewShopRepository(db *pgxpool.Pool) *ShopRepository {
	return &ShopRepository{db: db}
}

const shopItemColumns = `id, title, crystal_price, diamond_price, discount_percent,
	is_golden, effect_type, effect_value, required_level, is_active`

func scanShopItem(row pgx.Row) (*domain.ShopItem, error) {
	var it domain.ShopItem
	err := row.Scan(&it.ID, &it.Title, &it.CrystalPrice, &it.DiamondPrice, &it.DiscountPercent,
		&it.IsGolden, &it.EffectType, &it.EffectValue, &it.RequiredLevel, &it.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrShopItemNotFound
		}
		return nil, err
	}
	return &it, nil
}

func (r *ShopRepository) GetByID(ctx context.Context, id int64) (*domain.ShopItem, error) {
	return scanShopItem(r.db.QueryRow(ctx,
		`SELECT `+shopItemColumns+` FROM shop_items WHERE id = $1`, id))
}

func (r *ShopRepository) ListActive(ctx context.Context) ([]*domain.ShopItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+shopItemColumns+` FROM shop_items WHERE is_active ORDER BY required_level, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.ShopItem
	for rows.Next() {
		var it domain.ShopItem
		err := rows.Scan(&it.ID, &it.Title, &it.CrystalPrice, &it.DiamondPrice, &it.DiscountPercent,
			&it.IsGolden, &it.EffectType, &it.EffectValue, &it.RequiredLevel, &it.IsActive)
		if err != nil {
			return nil, err
		}
		res = append(res, &it)
	}
	return res, rows.Err()
}

// RecordPurchaseTx пишет запись о покупке в той же транзакции, что и списание
func (r *ShopRepository) RecordPurchaseTx(ctx context.Context, tx pgx.Tx, p *domain.Purchase) error {
	return tx.QueryRow(ctx,
		`INSERT INTO purchases (user_id, item_type, item_id, quantity, crystals_paid, diamonds_paid)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		p.UserID, p.ItemType, p.ItemID, p.Quantity, p.CrystalsPaid, p.DiamondsPaid,
	).Scan(&p.ID, &p.CreatedAt)
}

// GetUserPurchases возвращает последние покупки игрока
func (r *ShopRepository) GetUserPurchases(ctx context.Context, userID int64, limit int) ([]*domain.Purchase, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, item_type, item_id, quantity, crystals_paid, diamonds_paid, created_at
		 FROM purchases
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Purchase
	for rows.Next() {
		var p domain.Purchase
		err := rows.Scan(&p.ID, &p.UserID, &p.ItemType, &p.ItemID, &p.Quantity,
			&p.CrystalsPaid, &p.DiamondsPaid, &p.CreatedAt)
		if err != nil {
			return nil, err
		}
		res = append(res, &p)
	}
	return res, rows.Err()
}
