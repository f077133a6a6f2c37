package domain

import "time"

// ClickLog - аудит кликов. Пишется fire-and-forget, на корректность
// экономики не влияет.
type ClickLog struct {
	ID             int64     `db:"id" json:"id"`
	UserID         int64     `db:"user_id" json:"user_id"`
	Clicks         int       `db:"clicks" json:"clicks"`
	CrystalsEarned float64   `db:"crystals_earned" json:"crystals_earned"`
	XPEarned       float64   `db:"xp_earned" json:"xp_earned"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
