package domain

import "time"

// QuestType - период действия квеста
type QuestType string

const (
	QuestTypeDaily    QuestType = "daily"
	QuestTypeWeekly   QuestType = "weekly"
	QuestTypeSeasonal QuestType = "seasonal"
)

// ActionType - игровое событие, двигающее прогресс
type ActionType string

const (
	ActionTypeClicks         ActionType = "clicks"
	ActionTypeCrystalsEarned ActionType = "crystals_earned"
	ActionTypePurchases      ActionType = "purchases"
	ActionTypeLogins         ActionType = "logins"
)

// Quest - шаблон задания
type Quest struct {
	ID             int64      `db:"id" json:"id"`
	QuestType      QuestType  `db:"quest_type" json:"quest_type"`
	Title          string     `db:"title" json:"title"`
	Description    string     `db:"description" json:"description"`
	ActionType     ActionType `db:"action_type" json:"action_type"`
	TargetCount    int        `db:"target_count" json:"target_count"`
	RewardCrystals int64      `db:"reward_crystals" json:"reward_crystals"`
	RewardDiamonds int64      `db:"reward_diamonds" json:"reward_diamonds"`
	RewardXP       float64    `db:"reward_xp" json:"reward_xp"`
	IsActive       bool       `db:"is_active" json:"is_active"`
	SortOrder      int        `db:"sort_order" json:"sort_order"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// UserQuest - прогресс игрока по заданию за период.
// reward_claimed терминален: после выплаты запись больше не мутирует.
type UserQuest struct {
	ID            int64      `db:"id" json:"id"`
	UserID        int64      `db:"user_id" json:"user_id"`
	QuestID       int64      `db:"quest_id" json:"quest_id"`
	PeriodStart   time.Time  `db:"period_start" json:"period_start"`
	CurrentCount  int        `db:"current_count" json:"current_count"`
	Completed     bool       `db:"completed" json:"completed"`
	RewardClaimed bool       `db:"reward_claimed" json:"reward_claimed"`
	CompletedAt   *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	ClaimedAt     *time.Time `db:"claimed_at" json:"claimed_at,omitempty"`
}

// UserQuestWithDetails - прогресс с деталями квеста (для API ответов)
type UserQuestWithDetails struct {
	UserQuest
	Quest Quest `json:"quest"`
}

// CanClaim проверяет, можно ли забрать награду
func (uq *UserQuest) CanClaim() bool {
	return uq.Completed && !uq.RewardClaimed
}

// Progress возвращает прогресс в процентах (0-100)
func (uq *UserQuest) Progress(targetCount int) int {
	if targetCount <= 0 {
		return 100
	}
	progress := (uq.CurrentCount * 100) / targetCount
	if progress > 100 {
		return 100
	}
	return progress
}
