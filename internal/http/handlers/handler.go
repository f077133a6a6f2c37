package handlers

import (
	"errors"
	"net/http"

	"petshop_tycoon/internal/logger"
	"petshop_tycoon/internal/repository"
	"petshop_tycoon/internal/service"
	"petshop_tycoon/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB       *pgxpool.Pool
	BotToken string

	Players       *repository.PlayerRepository
	Shop          *repository.ShopRepository
	Accessories   *repository.AccessoryRepository
	Quests        *repository.QuestRepository
	ClickLogs     *repository.ClickLogRepository
	Notifications *repository.NotificationRepository

	ClickService     *service.ClickService
	PassiveService   *service.PassiveService
	ChestService     *service.ChestService
	ShopService      *service.ShopService
	QuestService     *service.QuestService
	AccessoryService *service.AccessoryService
	GiftService      *service.GiftService
	AdminService     *service.AdminService

	Hub *ws.Hub

	adminIDs map[int64]struct{}
}

func NewHandler(db *pgxpool.Pool, botToken string, adminTgIDs []int64, hub *ws.Hub) *Handler {
	admins := make(map[int64]struct{}, len(adminTgIDs))
	for _, id := range adminTgIDs {
		admins[id] = struct{}{}
	}

	return &Handler{
		DB:       db,
		BotToken: botToken,

		Players:       repository.NewPlayerRepository(db),
		Shop:          repository.NewShopRepository(db),
		Accessories:   repository.NewAccessoryRepository(db),
		Quests:        repository.NewQuestRepository(db),
		ClickLogs:     repository.NewClickLogRepository(db),
		Notifications: repository.NewNotificationRepository(db),

		ClickService:     service.NewClickService(db),
		PassiveService:   service.NewPassiveService(db),
		ChestService:     service.NewChestService(db),
		ShopService:      service.NewShopService(db),
		QuestService:     service.NewQuestService(db),
		AccessoryService: service.NewAccessoryService(db),
		GiftService:      service.NewGiftService(db),
		AdminService:     service.NewAdminService(db),

		Hub:      hub,
		adminIDs: admins,
	}
}

// getUserID извлекает user_id из контекста Gin
func getUserID(c interface{ Get(string) (any, bool) }) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// serviceError переводит ошибку сервиса в HTTP ответ: нарушенное
// предусловие - 400 с текстом для игрока, бан - 403, отсутствие
// сущности - 404, остальное - 500 без деталей.
func serviceError(c *gin.Context, err error) {
	var pre *service.PreconditionError
	if errors.As(err, &pre) {
		body := gin.H{"error": pre.Message}
		for k, v := range pre.Hint {
			body[k] = v
		}
		c.JSON(http.StatusBadRequest, body)
		return
	}

	switch {
	case errors.Is(err, service.ErrBanned):
		c.JSON(http.StatusForbidden, gin.H{"error": service.ErrBanned.Error()})
	case errors.Is(err, repository.ErrPlayerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrPlayerNotFound.Error()})
	case errors.Is(err, service.ErrQuestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "квест не найден"})
	case errors.Is(err, repository.ErrShopItemNotFound),
		errors.Is(err, repository.ErrAccessoryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "товар не найден"})
	case errors.Is(err, repository.ErrGiftNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "подарок не найден"})
	default:
		logger.Error("handler failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
}
