package service

import (
	"context"
	"fmt"

	"petshop_tycoon/internal/domain"
	"petshop_tycoon/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrGiftClaimed = precondition("Подарок уже получен")
	ErrSelfGift    = precondition("Нельзя отправить подарок самому себе")
	ErrEmptyGift   = precondition("Сумма подарка должна быть больше нуля")
)

// GiftService пересылает кристаллы между игроками. Списание у отправителя
// и создание подарка идут одной транзакцией; зачисление происходит отдельно,
// когда получатель забирает подарок.
type GiftService struct {
	db      *pgxpool.Pool
	players *repository.PlayerRepository
	gifts   *repository.GiftRepository
}

func NewGiftService(db *pgxpool.Pool) *GiftService {
	return &GiftService{
		db:      db,
		players: repository.NewPlayerRepository(db),
		gifts:   repository.NewGiftRepository(db),
	}
}

func (s *GiftService) Send(ctx context.Context, senderID, recipientTg, crystals int64, message string) (*domain.Gift, error) {
	if crystals <= 0 {
		return nil, ErrEmptyGift
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	sender, err := s.players.GetForUpdate(ctx, tx, senderID)
	if err != nil {
		return nil, err
	}
	if sender.IsBanned {
		return nil, ErrBanned
	}
	if sender.TgID == recipientTg {
		return nil, ErrSelfGift
	}
	if sender.Crystals < float64(crystals) {
		return nil, precondition(fmt.Sprintf("Недостаточно кристаллов! Нужно: %d, есть: %d",
			crystals, int64(sender.Crystals)))
	}

	sender.Crystals -= float64(crystals)

	gift := &domain.Gift{
		SenderID:    senderID,
		RecipientTg: recipientTg,
		Crystals:    crystals,
		Message:     message,
	}
	if err := s.gifts.CreateTx(ctx, tx, gift); err != nil {
		return nil, err
	}
	if err := s.players.SaveEconomyTx(ctx, tx, sender); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return gift, nil
}

type GiftClaimResult struct {
	GiftID   int64   `json:"gift_id"`
	Crystals int64   `json:"crystals_received"`
	Balance  float64 `json:"crystals"`
}

func (s *GiftService) Claim(ctx context.Context, userID, giftID int64) (*GiftClaimResult, error) {
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

	crystals, err := s.gifts.ClaimTx(ctx, tx, giftID, p.TgID)
	if err != nil {
		if err == repository.ErrGiftAlreadyClaimed {
			return nil, ErrGiftClaimed
		}
		return nil, err
	}

	p.Crystals += float64(crystals)
	p.TotalCrystalsEarned += float64(crystals)

	if err := s.players.SaveEconomyTx(ctx, tx, p); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &GiftClaimResult{GiftID: giftID, Crystals: crystals, Balance: p.Crystals}, nil
}

func (s *GiftService) ListIncoming(ctx context.Context, userID int64) ([]*domain.Gift, error) {
	p, err := s.players.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.gifts.ListForRecipient(ctx, p.TgID)
}
