package repository

import (
	"context"
	"errors"

	"petshop_tycoon/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrGiftNotFound = errors.New("gift not found")
var ErrGiftAlreadyClaimed = errors.New("gift already claimed")

type GiftRepository struct {
	db *pgxpool.Pool
}

func NewGiftRepository(db *pgxpool.Pool) *GiftRepository {
	return &GiftRepository{db: db}
}

// CreateTx создаёт подарок внутри транзакции со списанием у отправителя
func (r *GiftRepository) CreateTx(ctx context.Context, tx pgx.Tx, g *domain.Gift) error {
	return tx.QueryRow(ctx,
		`INSERT INTO gifts (sender_id, recipient_tg, crystals, message)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		g.SenderID, g.RecipientTg, g.Crystals, g.Message,
	).Scan(&g.ID, &g.CreatedAt)
}

// ListForRecipient возвращает неполученные подарки по tg id получателя
func (r *GiftRepository) ListForRecipient(ctx context.Context, recipientTg int64) ([]*domain.Gift, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, sender_id, recipient_tg, crystals, message, claimed, claimed_at, created_at
		 FROM gifts
		 WHERE recipient_tg = $1 AND NOT claimed
		 ORDER BY created_at DESC`, recipientTg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Gift
	for rows.Next() {
		var g domain.Gift
		err := rows.Scan(&g.ID, &g.SenderID, &g.RecipientTg, &g.Crystals, &g.Message,
			&g.Claimed, &g.ClaimedAt, &g.CreatedAt)
		if err != nil {
			return nil, err
		}
		res = append(res, &g)
	}
	return res, rows.Err()
}

// ClaimTx помечает подарок полученным и возвращает сумму. Условный UPDATE
// защищает от повторного получения.
func (r *GiftRepository) ClaimTx(ctx context.Context, tx pgx.Tx, giftID, recipientTg int64) (int64, error) {
	var crystals int64
	err := tx.QueryRow(ctx,
		`UPDATE gifts
		 SET claimed = true, claimed_at = NOW()
		 WHERE id = $1 AND recipient_tg = $2 AND NOT claimed
		 RETURNING crystals`,
		giftID, recipientTg,
	).Scan(&crystals)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrGiftAlreadyClaimed
		}
		return 0, err
	}
	return crystals, nil
}
