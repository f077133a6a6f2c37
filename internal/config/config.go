package config

import (
	"os"
	"strconv"
	"strings"

	"petshop_tycoon/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	BotToken    string
	JWTSecret   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AdminTelegramIDs []int64 // tg id админов через запятую в env
	AdminBotEnabled  bool

	// Анти-абьюз кликов: фиксированное окно на игрока
	ClickRateLimit    int
	ClickRateWindowMS int

	// Общий лимит API по IP
	APIRateLimit         int
	APIRateWindowSeconds int
}

// Загрузка конфига из env
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	botToken := os.Getenv("BOT_TOKEN")
	if botToken == "" {
		logger.Fatal("BOT_TOKEN is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	// Проверка тг id админов !! ЧЕРЕЗ ЗАПЯТУЮ В ENV !!
	var adminIDs []int64
	if s := os.Getenv("ADMIN_TELEGRAM_IDS"); s != "" {
		for _, idStr := range strings.Split(s, ",") {
			idStr = strings.TrimSpace(idStr)
			if id, err := strconv.ParseInt(idStr, 10, 64); err == nil {
				adminIDs = append(adminIDs, id)
			}
		}
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	clickLimit := 15 // кликов за ->
	if v := os.Getenv("CLICK_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			clickLimit = n
		}
	}

	clickWindowMS := 1000 // -> 1000 мс
	if v := os.Getenv("CLICK_RATE_WINDOW_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			clickWindowMS = n
		}
	}

	apiLimit := 120
	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			apiLimit = n
		}
	}

	apiWindow := 60
	if v := os.Getenv("API_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			apiWindow = n
		}
	}

	return &Config{
		AppPort:              port,
		DatabaseURL:          dbURL,
		BotToken:             botToken,
		JWTSecret:            jwtSecret,
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		RedisDB:              redisDB,
		AdminTelegramIDs:     adminIDs,
		AdminBotEnabled:      os.Getenv("ADMIN_BOT_ENABLED") == "true",
		ClickRateLimit:       clickLimit,
		ClickRateWindowMS:    clickWindowMS,
		APIRateLimit:         apiLimit,
		APIRateWindowSeconds: apiWindow,
	}
}
