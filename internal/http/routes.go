package http

import (
	"time"

	"petshop_tycoon/internal/config"
	"petshop_tycoon/internal/http/handlers"
	"petshop_tycoon/internal/http/middleware"
	"petshop_tycoon/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterRoutes собирает всю HTTP поверхность и возвращает хендлер,
// чтобы админ-бот мог переиспользовать его сервисы
func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, version string) *handlers.Handler {
	hub := ws.NewHub()
	h := handlers.NewHandler(db, cfg.BotToken, cfg.AdminTelegramIDs, hub)
	healthHandler := handlers.NewHealthHandler(db, version)

	apiWindow := time.Duration(cfg.APIRateWindowSeconds) * time.Second
	clickWindow := time.Duration(cfg.ClickRateWindowMS) * time.Millisecond
	clickRL := middleware.NewClickLimiter(cfg.ClickRateLimit, clickWindow)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, apiWindow))
	{
		v1.POST("/auth", h.Auth)
		v1.GET("/me", middleware.JWT(), h.Me)

		// Игровой цикл
		v1.POST("/game/click", middleware.JWT(), clickRL.Middleware(), h.Click)
		v1.POST("/game/passive", middleware.JWT(), h.ClaimPassive)
		v1.POST("/game/chest", middleware.JWT(), h.ClaimChest)

		// Магазин
		v1.GET("/shop", h.ListShop)
		v1.POST("/shop/purchase", middleware.JWT(), h.Purchase)
		v1.GET("/me/purchases", middleware.JWT(), h.MyPurchases)

		// Квесты
		v1.GET("/quests", h.GetQuests)
		v1.GET("/me/quests", middleware.JWT(), h.GetMyQuests)
		v1.POST("/quests/:id/claim", middleware.JWT(), h.ClaimQuestReward)

		// Аксессуары
		v1.GET("/accessories", h.ListAccessories)
		v1.GET("/me/accessories", middleware.JWT(), h.MyAccessories)
		v1.POST("/accessories/:id/equip", middleware.JWT(), h.EquipAccessory)

		// Подарки
		v1.POST("/gifts", middleware.JWT(), h.SendGift)
		v1.GET("/me/gifts", middleware.JWT(), h.MyGifts)
		v1.POST("/gifts/:id/claim", middleware.JWT(), h.ClaimGift)

		// Уведомления
		v1.GET("/me/notifications", middleware.JWT(), h.MyNotifications)
		v1.POST("/notifications/:id/read", middleware.JWT(), h.ReadNotification)
		v1.POST("/notifications/read-all", middleware.JWT(), h.ReadAllNotifications)

		v1.GET("/leaderboard", h.Leaderboard)

		// Админка
		admin := v1.Group("/admin", middleware.JWT(), h.AdminOnly())
		{
			admin.GET("/stats", h.AdminStats)
			admin.GET("/players/:tg_id", h.AdminPlayer)
			admin.POST("/players/:tg_id/ban", h.AdminBan)
			admin.POST("/players/:tg_id/unban", h.AdminUnban)
			admin.GET("/click-logs", h.AdminClickLog)
		}
	}

	// WebSocket для push-событий
	r.GET("/ws", h.WS())

	return h
}
