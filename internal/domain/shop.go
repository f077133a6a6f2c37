package domain

import "time"

// EffectType - постоянный эффект, применяемый к игроку при покупке
type EffectType string

const (
	EffectPassiveRate EffectType = "passive_rate"
)

// ShopItem - позиция магазина. Скидка учитывается только у "золотых" позиций.
type ShopItem struct {
	ID              int64       `db:"id" json:"id"`
	Title           string      `db:"title" json:"title"`
	CrystalPrice    int64       `db:"crystal_price" json:"crystal_price"`
	DiamondPrice    int64       `db:"diamond_price" json:"diamond_price"`
	DiscountPercent int         `db:"discount_percent" json:"discount_percent"`
	IsGolden        bool        `db:"is_golden" json:"is_golden"`
	EffectType      *EffectType `db:"effect_type" json:"effect_type,omitempty"`
	EffectValue     float64     `db:"effect_value" json:"effect_value"`
	RequiredLevel   int         `db:"required_level" json:"required_level"`
	IsActive        bool        `db:"is_active" json:"is_active"`
}

// Purchase - запись о покупке (ledger, пишется в той же транзакции что и списание)
type Purchase struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	ItemType     string    `db:"item_type" json:"item_type"` // shop_item | accessory
	ItemID       int64     `db:"item_id" json:"item_id"`
	Quantity     int       `db:"quantity" json:"quantity"`
	CrystalsPaid int64     `db:"crystals_paid" json:"crystals_paid"`
	DiamondsPaid int64     `db:"diamonds_paid" json:"diamonds_paid"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
