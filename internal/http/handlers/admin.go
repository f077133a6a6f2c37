package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// AdminOnly пускает дальше только игроков из ADMIN_TELEGRAM_IDS
func (h *Handler) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserID(c)
		if !ok {
			unauthorized(c)
			c.Abort()
			return
		}

		player, err := h.Players.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		if _, isAdmin := h.adminIDs[player.TgID]; !isAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Next()
	}
}

// AdminStats возвращает сводку по всем игрокам
func (h *Handler) AdminStats(c *gin.Context) {
	stats, err := h.AdminService.Stats(c.Request.Context())
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"stats":     stats,
		"online_ws": h.Hub.Online(),
	})
}

// AdminPlayer возвращает игрока по tg id
func (h *Handler) AdminPlayer(c *gin.Context) {
	tgID, err := strconv.ParseInt(c.Param("tg_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tg id"})
		return
	}

	player, err := h.AdminService.PlayerByTgID(c.Request.Context(), tgID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, player)
}

// AdminBan блокирует игрока по tg id
func (h *Handler) AdminBan(c *gin.Context) {
	h.adminSetBanned(c, true)
}

// AdminUnban снимает блокировку
func (h *Handler) AdminUnban(c *gin.Context) {
	h.adminSetBanned(c, false)
}

func (h *Handler) adminSetBanned(c *gin.Context, banned bool) {
	tgID, err := strconv.ParseInt(c.Param("tg_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tg id"})
		return
	}

	if err := h.AdminService.SetBannedByTgID(c.Request.Context(), tgID, banned); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tg_id": tgID, "is_banned": banned})
}

// AdminClickLog возвращает последние записи аудита кликов
func (h *Handler) AdminClickLog(c *gin.Context) {
	limit := 100
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	logs, err := h.ClickLogs.GetRecent(c.Request.Context(), limit)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"click_logs": logs})
}
