package service

import (
	"context"
	"errors"
	"time"

	"petshop_tycoon/internal/domain"
	"petshop_tycoon/internal/logger"
	"petshop_tycoon/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrQuestNotCompleted   = precondition("Квест ещё не выполнен")
	ErrQuestAlreadyClaimed = precondition("Награда уже получена")
	ErrQuestNotFound       = errors.New("quest not found")
)

type QuestService struct {
	db      *pgxpool.Pool
	players *repository.PlayerRepository
	quests  *repository.QuestRepository
}

func NewQuestService(db *pgxpool.Pool) *QuestService {
	return &QuestService{
		db:      db,
		players: repository.NewPlayerRepository(db),
		quests:  repository.NewQuestRepository(db),
	}
}

type QuestClaimResult struct {
	RewardCrystals int64   `json:"reward_crystals"`
	RewardDiamonds int64   `json:"reward_diamonds"`
	RewardXP       float64 `json:"reward_xp"`
	Crystals       float64 `json:"crystals"`
	Diamonds       int64   `json:"diamonds"`
	XP             float64 `json:"xp"`
}

// ClaimReward выплачивает награду за выполненный квест. reward_claimed
// терминален: повторный клейм отклоняется без изменения состояния.
func (s *QuestService) ClaimReward(ctx context.Context, userID, userQuestID int64) (*QuestClaimResult, error) {
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

	uq, err := s.quests.GetUserQuestTx(ctx, tx, userID, userQuestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestNotFound
		}
		return nil, err
	}
	if !uq.Completed {
		return nil, ErrQuestNotCompleted
	}
	if uq.RewardClaimed {
		return nil, ErrQuestAlreadyClaimed
	}

	crystals, diamonds, xp, err := s.quests.ClaimRewardTx(ctx, tx, userID, userQuestID)
	if err != nil {
		return nil, err
	}

	p.Crystals += float64(crystals)
	p.TotalCrystalsEarned += float64(crystals)
	p.Diamonds += diamonds
	p.XP += xp

	if err := s.players.SaveEconomyTx(ctx, tx, p); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &QuestClaimResult{
		RewardCrystals: crystals,
		RewardDiamonds: diamonds,
		RewardXP:       xp,
		Crystals:       p.Crystals,
		Diamonds:       p.Diamonds,
		XP:             p.XP,
	}, nil
}

// BumpProgress двигает прогресс всех активных квестов с данным действием.
// Вызывается fire-and-forget после игровых событий.
func (s *QuestService) BumpProgress(ctx context.Context, userID int64, action domain.ActionType, amount int) {
	quests, err := s.quests.GetActiveQuests(ctx)
	if err != nil {
		return
	}

	for _, q := range quests {
		if q.ActionType != action {
			continue
		}
		if err := s.quests.IncrementProgress(ctx, userID, q, amount); err != nil {
			logger.Warn("quest progress update failed", "user_id", userID, "quest_id", q.ID, "error", err)
		}
	}
}

// BumpProgressAsync - вариант для вызова из обработчиков после ответа клиенту
func (s *QuestService) BumpProgressAsync(userID int64, action domain.ActionType, amount int) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.BumpProgress(ctx, userID, action, amount)
	}()
}
