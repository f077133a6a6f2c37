package domain

import "time"

// Player - строка игрока, единица конкурентного доступа всей экономики.
// Все обработчики читают и пишут её внутри одной транзакции.
type Player struct {
	ID        int64     `db:"id" json:"id"`
	TgID      int64     `db:"tg_id" json:"tg_id"`
	Username  string    `db:"username" json:"username"`
	FirstName string    `db:"first_name" json:"first_name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	// Валюты. Crystals дробные (пассивный доход за секунды), diamonds и
	// stones всегда целые.
	Crystals float64 `db:"crystals" json:"crystals"`
	Diamonds int64   `db:"diamonds" json:"diamonds"`
	Stones   int64   `db:"stones" json:"stones"`

	XP          float64 `db:"xp" json:"xp"`
	Level       int     `db:"level" json:"level"`
	PassiveRate float64 `db:"passive_rate" json:"passive_rate"` // кристаллов в секунду

	LastPassiveClaim time.Time  `db:"last_passive_claim" json:"last_passive_claim"`
	LastChestClaim   *time.Time `db:"last_chest_claim" json:"last_chest_claim,omitempty"`
	LastActiveAt     time.Time  `db:"last_active_at" json:"last_active_at"`
	LastStreakDate   *time.Time `db:"last_streak_date" json:"last_streak_date,omitempty"`

	StreakDays          int     `db:"streak_days" json:"streak_days"`
	TotalClicks         int64   `db:"total_clicks" json:"total_clicks"`
	TotalCrystalsEarned float64 `db:"total_crystals_earned" json:"total_crystals_earned"`

	IsBanned bool `db:"is_banned" json:"is_banned"`
}
