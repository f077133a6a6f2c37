package domain

import "time"

// Accessory - элемент каталога аксессуаров
type Accessory struct {
	ID            int64  `db:"id" json:"id"`
	Name          string `db:"name" json:"name"` // внутренний ключ, например "santa_hat"
	Title         string `db:"title" json:"title"`
	Category      string `db:"category" json:"category"`
	RequiredLevel int    `db:"required_level" json:"required_level"`
	CrystalPrice  int64  `db:"crystal_price" json:"crystal_price"`
	DiamondPrice  int64  `db:"diamond_price" json:"diamond_price"`
	SortOrder     int    `db:"sort_order" json:"sort_order"`
}

// UserAccessory - владение аксессуаром. Инвариант: не больше одного
// is_equipped на пару (user, category).
type UserAccessory struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	AccessoryID int64     `db:"accessory_id" json:"accessory_id"`
	IsEquipped  bool      `db:"is_equipped" json:"is_equipped"`
	ObtainedAt  time.Time `db:"obtained_at" json:"obtained_at"`
}

// UserAccessoryWithDetails - владение вместе с данными каталога (для API)
type UserAccessoryWithDetails struct {
	UserAccessory
	Accessory Accessory `json:"accessory"`
}
