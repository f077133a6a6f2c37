package handlers

import (
	"net/http"

	"petshop_tycoon/internal/domain"
	"petshop_tycoon/internal/economy"

	"github.com/gin-gonic/gin"
)

// playerView - состояние игрока для клиента
func playerView(p *domain.Player) gin.H {
	return gin.H{
		"id":           p.ID,
		"tg_id":        p.TgID,
		"username":     p.Username,
		"first_name":   p.FirstName,
		"created_at":   p.CreatedAt,
		"crystals":     p.Crystals,
		"diamonds":     p.Diamonds,
		"stones":       p.Stones,
		"xp":           p.XP,
		"level":        p.Level,
		"xp_for_next":  economy.XPForNextLevel(p.Level),
		"passive_rate": p.PassiveRate,
		"streak_days":  p.StreakDays,
		"total_clicks": p.TotalClicks,
	}
}

func (h *Handler) Me(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	player, err := h.Players.GetByID(c.Request.Context(), userID)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, playerView(player))
}
