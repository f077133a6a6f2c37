package repository

import (
	"context"
	"errors"
	"time"

	"petshop_tycoon/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrQuestNotClaimable = errors.New("quest not claimable")

type QuestRepository struct {
	db *pgxpool.Pool
}

func NewQuestRepository(db *pgxpool.Pool) *QuestRepository {
	return &QuestRepository{db: db}
}

const questColumns = `id, quest_type, title, description, action_type, target_count,
	reward_crystals, reward_diamonds, reward_xp, is_active, sort_order, created_at`

// GetActiveQuests возвращает все активные квесты
func (r *QuestRepository) GetActiveQuests(ctx context.Context) ([]*domain.Quest, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+questColumns+` FROM quests WHERE is_active = true ORDER BY sort_order, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanQuests(rows)
}

func scanQuests(rows pgx.Rows) ([]*domain.Quest, error) {
	var result []*domain.Quest
	for rows.Next() {
		var q domain.Quest
		err := rows.Scan(&q.ID, &q.QuestType, &q.Title, &q.Description, &q.ActionType,
			&q.TargetCount, &q.RewardCrystals, &q.RewardDiamonds, &q.RewardXP,
			&q.IsActive, &q.SortOrder, &q.CreatedAt)
		if err != nil {
			return nil, err
		}
		result = append(result, &q)
	}
	return result, rows.Err()
}

// GetUserQuests возвращает прогресс пользователя строго за текущие периоды.
// Фильтр по period_start обязателен: без него вчерашняя закрытая строка
// дневного квеста вернулась бы рядом со свежей и перекрыла её в выдаче.
func (r *QuestRepository) GetUserQuests(ctx context.Context, userID int64) ([]*domain.UserQuestWithDetails, error) {
	now := time.Now()
	daily := PeriodStart(domain.QuestTypeDaily, now)
	weekly := PeriodStart(domain.QuestTypeWeekly, now)
	seasonal := PeriodStart(domain.QuestTypeSeasonal, now)

	rows, err := r.db.Query(ctx,
		`SELECT
			uq.id, uq.user_id, uq.quest_id, uq.period_start, uq.current_count,
			uq.completed, uq.reward_claimed, uq.completed_at, uq.claimed_at,
			q.id, q.quest_type, q.title, q.description, q.action_type, q.target_count,
			q.reward_crystals, q.reward_diamonds, q.reward_xp, q.is_active, q.sort_order, q.created_at
		 FROM user_quests uq
		 JOIN quests q ON uq.quest_id = q.id
		 WHERE uq.user_id = $1 AND q.is_active = true
		   AND uq.period_start = CASE q.quest_type
			   WHEN 'weekly' THEN $3
			   WHEN 'seasonal' THEN $4
			   ELSE $2
		   END
		 ORDER BY uq.completed, q.sort_order, q.id`,
		userID, daily, weekly, seasonal)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.UserQuestWithDetails
	for rows.Next() {
		var d domain.UserQuestWithDetails
		err := rows.Scan(
			&d.ID, &d.UserID, &d.QuestID, &d.PeriodStart, &d.CurrentCount,
			&d.Completed, &d.RewardClaimed, &d.CompletedAt, &d.ClaimedAt,
			&d.Quest.ID, &d.Quest.QuestType, &d.Quest.Title, &d.Quest.Description,
			&d.Quest.ActionType, &d.Quest.TargetCount, &d.Quest.RewardCrystals,
			&d.Quest.RewardDiamonds, &d.Quest.RewardXP, &d.Quest.IsActive,
			&d.Quest.SortOrder, &d.Quest.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, &d)
	}
	return result, rows.Err()
}

// GetOrCreateUserQuest получает или лениво создаёт прогресс за период
func (r *QuestRepository) GetOrCreateUserQuest(ctx context.Context, userID, questID int64, periodStart time.Time) (*domain.UserQuest, error) {
	var uq domain.UserQuest

	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, quest_id, period_start, current_count, completed, reward_claimed, completed_at, claimed_at
		 FROM user_quests
		 WHERE user_id = $1 AND quest_id = $2 AND period_start = $3`,
		userID, questID, periodStart,
	).Scan(&uq.ID, &uq.UserID, &uq.QuestID, &uq.PeriodStart, &uq.CurrentCount,
		&uq.Completed, &uq.RewardClaimed, &uq.CompletedAt, &uq.ClaimedAt)
	if err == nil {
		return &uq, nil
	}

	err = r.db.QueryRow(ctx,
		`INSERT INTO user_quests (user_id, quest_id, period_start)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, quest_id, period_start) DO UPDATE SET user_id = EXCLUDED.user_id
		 RETURNING id, user_id, quest_id, period_start, current_count, completed, reward_claimed, completed_at, claimed_at`,
		userID, questID, periodStart,
	).Scan(&uq.ID, &uq.UserID, &uq.QuestID, &uq.PeriodStart, &uq.CurrentCount,
		&uq.Completed, &uq.RewardClaimed, &uq.CompletedAt, &uq.ClaimedAt)
	if err != nil {
		return nil, err
	}
	return &uq, nil
}

// IncrementProgress двигает прогресс и фиксирует завершение одним запросом
func (r *QuestRepository) IncrementProgress(ctx context.Context, userID int64, quest *domain.Quest, increment int) error {
	periodStart := PeriodStart(quest.QuestType, time.Now())

	uq, err := r.GetOrCreateUserQuest(ctx, userID, quest.ID, periodStart)
	if err != nil {
		return err
	}
	if uq.Completed {
		return nil
	}

	_, err = r.db.Exec(ctx,
		`UPDATE user_quests
		 SET current_count = current_count + $1,
			 completed = (current_count + $1) >= $2,
			 completed_at = CASE WHEN (current_count + $1) >= $2 THEN NOW() ELSE completed_at END
		 WHERE id = $3 AND NOT completed`,
		increment, quest.TargetCount, uq.ID)
	return err
}

// ClaimRewardTx помечает награду выданной и возвращает её размер.
// Условный UPDATE делает операцию идемпотентной: повторный вызов не находит
// строки и возвращает ErrQuestNotClaimable.
func (r *QuestRepository) ClaimRewardTx(ctx context.Context, tx pgx.Tx, userID, userQuestID int64) (crystals, diamonds int64, xp float64, err error) {
	err = tx.QueryRow(ctx,
		`UPDATE user_quests uq
		 SET reward_claimed = true, claimed_at = NOW()
		 FROM quests q
		 WHERE uq.id = $1
		   AND uq.user_id = $2
		   AND uq.quest_id = q.id
		   AND uq.completed = true
		   AND uq.reward_claimed = false
		 RETURNING q.reward_crystals, q.reward_diamonds, q.reward_xp`,
		userQuestID, userID,
	).Scan(&crystals, &diamonds, &xp)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, 0, ErrQuestNotClaimable
		}
		return 0, 0, 0, err
	}
	return crystals, diamonds, xp, nil
}

// GetUserQuestTx читает строку прогресса с блокировкой (для различения
// причин отказа при выдаче награды)
func (r *QuestRepository) GetUserQuestTx(ctx context.Context, tx pgx.Tx, userID, userQuestID int64) (*domain.UserQuest, error) {
	var uq domain.UserQuest
	err := tx.QueryRow(ctx,
		`SELECT id, user_id, quest_id, period_start, current_count, completed, reward_claimed, completed_at, claimed_at
		 FROM user_quests
		 WHERE id = $1 AND user_id = $2
		 FOR UPDATE`,
		userQuestID, userID,
	).Scan(&uq.ID, &uq.UserID, &uq.QuestID, &uq.PeriodStart, &uq.CurrentCount,
		&uq.Completed, &uq.RewardClaimed, &uq.CompletedAt, &uq.ClaimedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, err
	}
	return &uq, nil
}

// PeriodStart возвращает начало текущего периода по UTC
func PeriodStart(questType domain.QuestType, now time.Time) time.Time {
	now = now.UTC()
	switch questType {
	case domain.QuestTypeDaily:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	case domain.QuestTypeWeekly:
		// Начало недели (понедельник)
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		return time.Date(now.Year(), now.Month(), now.Day()-weekday+1, 0, 0, 0, 0, time.UTC)
	case domain.QuestTypeSeasonal:
		// Сезон привязан к кварталу
		q := (int(now.Month()) - 1) / 3
		return time.Date(now.Year(), time.Month(q*3+1), 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
