package domain

import "time"

// Gift - подарок кристаллов между игроками. Получатель адресуется по tg id,
// поэтому подарок можно отправить игроку, который ещё не заходил в игру.
type Gift struct {
	ID          int64      `db:"id" json:"id"`
	SenderID    int64      `db:"sender_id" json:"sender_id"`
	RecipientTg int64      `db:"recipient_tg" json:"recipient_tg"`
	Crystals    int64      `db:"crystals" json:"crystals"`
	Message     string     `db:"message" json:"message"`
	Claimed     bool       `db:"claimed" json:"claimed"`
	ClaimedAt   *time.Time `db:"claimed_at" json:"claimed_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}
