package handlers

import (
	"context"
	"net/http"
	"time"

	"petshop_tycoon/internal/domain"
	"petshop_tycoon/internal/http/middleware"
	"petshop_tycoon/internal/logger"
	"petshop_tycoon/internal/ws"

	"github.com/gin-gonic/gin"
)

// Click обрабатывает один тап по питомцу
func (h *Handler) Click(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	result, err := h.ClickService.Click(c.Request.Context(), userID)
	if err != nil {
		serviceError(c, err)
		return
	}

	middleware.ClicksTotal.Inc()

	// Аудит и квесты после коммита: их отказ не откатывает начисление
	go h.recordClick(userID, result.CrystalsEarned, result.XPEarned)
	h.QuestService.BumpProgressAsync(userID, domain.ActionTypeClicks, 1)
	h.QuestService.BumpProgressAsync(userID, domain.ActionTypeCrystalsEarned, int(result.CrystalsEarned))

	if result.LeveledUp {
		h.Hub.SendToUser(userID, ws.Event{Type: ws.EventLevelUp, Payload: gin.H{
			"level":         result.Level,
			"new_accessory": result.NewAccessory,
		}})
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) recordClick(userID int64, crystals, xp float64) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := h.ClickLogs.Create(ctx, &domain.ClickLog{
		UserID:         userID,
		Clicks:         1,
		CrystalsEarned: crystals,
		XPEarned:       xp,
	})
	if err != nil {
		logger.Warn("click log failed", "user_id", userID, "error", err)
	}
}

// ClaimPassive забирает накопленный пассивный доход
func (h *Handler) ClaimPassive(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	result, err := h.PassiveService.ClaimPassive(c.Request.Context(), userID)
	if err != nil {
		serviceError(c, err)
		return
	}

	h.QuestService.BumpProgressAsync(userID, domain.ActionTypeCrystalsEarned, int(result.CrystalsEarned))

	c.JSON(http.StatusOK, result)
}

// ClaimChest открывает ежедневный сундук
func (h *Handler) ClaimChest(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	result, err := h.ChestService.ClaimChest(c.Request.Context(), userID)
	if err != nil {
		serviceError(c, err)
		return
	}

	h.QuestService.BumpProgressAsync(userID, domain.ActionTypeCrystalsEarned, int(result.CrystalsEarned))

	c.JSON(http.StatusOK, result)
}
