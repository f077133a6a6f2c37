package handlers

import (
	"net/http"
	"strconv"
	"time"

	"petshop_tycoon/internal/domain"
	"petshop_tycoon/internal/repository"
	"petshop_tycoon/internal/ws"

	"github.com/gin-gonic/gin"
)

// GetQuests возвращает все активные квесты
func (h *Handler) GetQuests(c *gin.Context) {
	quests, err := h.Quests.GetActiveQuests(c.Request.Context())
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quests": quests})
}

// QuestWithProgress - квест с прогрессом пользователя
type QuestWithProgress struct {
	Quest         *domain.Quest `json:"quest"`
	CurrentCount  int           `json:"current_count"`
	TargetCount   int           `json:"target_count"`
	Completed     bool          `json:"completed"`
	RewardClaimed bool          `json:"reward_claimed"`
	Progress      int           `json:"progress"`
	UserQuestID   *int64        `json:"user_quest_id,omitempty"`
}

// GetMyQuests возвращает квесты пользователя с прогрессом
func (h *Handler) GetMyQuests(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	ctx := c.Request.Context()

	allQuests, err := h.Quests.GetActiveQuests(ctx)
	if err != nil {
		serviceError(c, err)
		return
	}

	userQuests, err := h.Quests.GetUserQuests(ctx, userID)
	if err != nil {
		serviceError(c, err)
		return
	}

	progressMap := make(map[int64]*domain.UserQuestWithDetails)
	for _, uq := range userQuests {
		progressMap[uq.QuestID] = uq
	}

	// Строки текущего периода заводятся лениво при первом просмотре
	now := time.Now()
	var result []QuestWithProgress
	for _, q := range allQuests {
		qwp := QuestWithProgress{
			Quest:       q,
			TargetCount: q.TargetCount,
		}

		uq, exists := progressMap[q.ID]
		if !exists {
			created, err := h.Quests.GetOrCreateUserQuest(ctx, userID, q.ID,
				repository.PeriodStart(q.QuestType, now))
			if err != nil {
				serviceError(c, err)
				return
			}
			uq = &domain.UserQuestWithDetails{UserQuest: *created, Quest: *q}
		}

		qwp.CurrentCount = uq.CurrentCount
		qwp.Completed = uq.Completed
		qwp.RewardClaimed = uq.RewardClaimed
		qwp.UserQuestID = &uq.ID
		qwp.Progress = uq.Progress(q.TargetCount)

		result = append(result, qwp)
	}

	c.JSON(http.StatusOK, gin.H{"quests": result})
}

// ClaimQuestReward забирает награду за выполненный квест
func (h *Handler) ClaimQuestReward(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	userQuestID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quest id"})
		return
	}

	result, err := h.QuestService.ClaimReward(c.Request.Context(), userID, userQuestID)
	if err != nil {
		serviceError(c, err)
		return
	}

	h.Hub.SendToUser(userID, ws.Event{Type: ws.EventQuestCompleted, Payload: result})

	c.JSON(http.StatusOK, result)
}
