package service

import (
	"context"

	"petshop_tycoon/internal/domain"
	"petshop_tycoon/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AdminService - операции админки и админ-бота
type AdminService struct {
	players *repository.PlayerRepository
}

func NewAdminService(db *pgxpool.Pool) *AdminService {
	return &AdminService{players: repository.NewPlayerRepository(db)}
}

func (s *AdminService) Stats(ctx context.Context) (*repository.Stats, error) {
	return s.players.GetStats(ctx)
}

func (s *AdminService) PlayerByTgID(ctx context.Context, tgID int64) (*domain.Player, error) {
	return s.players.GetByTgID(ctx, tgID)
}

func (s *AdminService) SetBannedByTgID(ctx context.Context, tgID int64, banned bool) error {
	p, err := s.players.GetByTgID(ctx, tgID)
	if err != nil {
		return err
	}
	return s.players.SetBanned(ctx, p.ID, banned)
}
