package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"petshop_tycoon/internal/domain"
	"petshop_tycoon/internal/logger"
	"petshop_tycoon/internal/ws"

	"github.com/gin-gonic/gin"
)

type SendGiftRequest struct {
	RecipientTg int64  `json:"recipient_tg" binding:"required"`
	Crystals    int64  `json:"crystals" binding:"required"`
	Message     string `json:"message"`
}

// SendGift отправляет кристаллы другому игроку по его tg id
func (h *Handler) SendGift(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	var req SendGiftRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	if len(req.Message) > 256 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message too long"})
		return
	}

	gift, err := h.GiftService.Send(c.Request.Context(), userID, req.RecipientTg, req.Crystals, req.Message)
	if err != nil {
		serviceError(c, err)
		return
	}

	// Если получатель уже играет, пушим событие и кладём уведомление
	if recipient, err := h.Players.GetByTgID(c.Request.Context(), req.RecipientTg); err == nil {
		h.Hub.SendToUser(recipient.ID, ws.Event{Type: ws.EventGiftReceived, Payload: gift})
		go h.notifyGift(recipient.ID, gift.Crystals)
	} else {
		logger.Debug("gift recipient not registered yet", "recipient_tg", req.RecipientTg)
	}

	c.JSON(http.StatusOK, gin.H{"gift": gift})
}

func (h *Handler) notifyGift(recipientID, crystals int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := h.Notifications.Create(ctx, &domain.Notification{
		UserID: recipientID,
		Title:  "Подарок!",
		Body:   fmt.Sprintf("Тебе прислали %d кристаллов", crystals),
	})
	if err != nil {
		logger.Warn("gift notification failed", "user_id", recipientID, "error", err)
	}
}

// MyGifts возвращает неполученные подарки игрока
func (h *Handler) MyGifts(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	gifts, err := h.GiftService.ListIncoming(c.Request.Context(), userID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gifts": gifts})
}

// ClaimGift зачисляет кристаллы из подарка
func (h *Handler) ClaimGift(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	giftID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid gift id"})
		return
	}

	result, err := h.GiftService.Claim(c.Request.Context(), userID, giftID)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
