package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"petshop_tycoon/internal/logger"
	"petshop_tycoon/internal/repository"
	"petshop_tycoon/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// AdminBot handles admin commands via Telegram
type AdminBot struct {
	bot          *tgbotapi.BotAPI
	adminService *service.AdminService
	players      *repository.PlayerRepository
	adminIDs     []int64 // Telegram user IDs who can use admin commands
	stopCh       chan struct{}
	wg           sync.WaitGroup
	log          *slog.Logger
}

// NewAdminBot creates a new admin bot
func NewAdminBot(token string, adminService *service.AdminService, players *repository.PlayerRepository, adminIDs []int64) (*AdminBot, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log := logger.With("component", "admin_bot")
	log.Info("admin bot authorized", "username", bot.Self.UserName)

	return &AdminBot{
		bot:          bot,
		adminService: adminService,
		players:      players,
		adminIDs:     adminIDs,
		stopCh:       make(chan struct{}),
		log:          log,
	}, nil
}

// Start starts listening for commands
func (b *AdminBot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.bot.GetUpdatesChan(u)
	b.log.Info("starting bot update loop")

	for {
		select {
		case <-b.stopCh:
			b.log.Info("stopping bot update loop")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			if !b.isAdmin(update.Message.From.ID) {
				continue
			}

			b.wg.Add(1)
			go func(msg *tgbotapi.Message) {
				defer b.wg.Done()
				b.handleCommand(msg)
			}(update.Message)
		}
	}
}

// Stop gracefully stops the bot
func (b *AdminBot) Stop() {
	b.log.Info("stopping admin bot...")
	close(b.stopCh)
	b.bot.StopReceivingUpdates()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.log.Info("admin bot stopped gracefully")
	case <-time.After(10 * time.Second):
		b.log.Warn("admin bot shutdown timeout, some handlers may not have completed")
	}
}

func (b *AdminBot) isAdmin(userID int64) bool {
	for _, id := range b.adminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (b *AdminBot) handleCommand(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var response string

	switch msg.Command() {
	case "start", "help":
		response = b.helpMessage()

	case "stats":
		response = b.handleStats(ctx)

	case "user":
		response = b.handleUser(ctx, msg.CommandArguments())

	case "ban":
		response = b.handleSetBanned(ctx, msg.CommandArguments(), true)

	case "unban":
		response = b.handleSetBanned(ctx, msg.CommandArguments(), false)

	case "top":
		response = b.handleTop(ctx, msg.CommandArguments())

	default:
		response = "❌ Неизвестная команда. Используйте /help для списка команд."
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, response)
	reply.ParseMode = "HTML"
	reply.ReplyToMessageID = msg.MessageID

	if _, err := b.bot.Send(reply); err != nil {
		b.log.Error("error sending message", "error", err)
	}
}

func (b *AdminBot) helpMessage() string {
	return `<b>🤖 Команды администратора</b>

<b>📊 Статистика:</b>
/stats - Статистика игры
/top [лимит] - Топ игроков по кристаллам

<b>👤 Управление игроками:</b>
/user &lt;tg_id&gt; - Информация об игроке
/ban &lt;tg_id&gt; - Заблокировать
/unban &lt;tg_id&gt; - Разблокировать`
}

func (b *AdminBot) handleStats(ctx context.Context) string {
	stats, err := b.adminService.Stats(ctx)
	if err != nil {
		return fmt.Sprintf("❌ Ошибка: %v", err)
	}

	return fmt.Sprintf(`<b>📊 Статистика игры</b>

<b>👥 Игроки:</b>
• Всего: %d
• Активных сегодня: %d
• Заблокировано: %d

<b>💎 Экономика:</b>
• Кристаллов в обороте: %.0f
• Кликов сегодня: %d`,
		stats.TotalPlayers, stats.ActiveToday, stats.BannedPlayers,
		stats.TotalCrystals, stats.TotalClicksToday)
}

func (b *AdminBot) handleUser(ctx context.Context, args string) string {
	tgID, err := parseTgID(args)
	if err != nil {
		return "Использование: /user &lt;tg_id&gt;"
	}

	p, err := b.adminService.PlayerByTgID(ctx, tgID)
	if err != nil {
		return fmt.Sprintf("❌ Игрок не найден: %v", err)
	}

	banned := "нет"
	if p.IsBanned {
		banned = "да"
	}

	return fmt.Sprintf(`<b>👤 Игрок %d</b>

• Username: @%s
• Уровень: %d (XP %.1f)
• Кристаллы: %.1f
• Алмазы: %d
• Камни: %d
• Стрик: %d дней
• Кликов всего: %d
• Забанен: %s`,
		p.TgID, p.Username, p.Level, p.XP, p.Crystals, p.Diamonds, p.Stones,
		p.StreakDays, p.TotalClicks, banned)
}

func (b *AdminBot) handleSetBanned(ctx context.Context, args string, banned bool) string {
	tgID, err := parseTgID(args)
	if err != nil {
		return "Использование: /ban &lt;tg_id&gt; или /unban &lt;tg_id&gt;"
	}

	if err := b.adminService.SetBannedByTgID(ctx, tgID, banned); err != nil {
		return fmt.Sprintf("❌ Ошибка: %v", err)
	}
	if banned {
		return fmt.Sprintf("🚫 Игрок %d заблокирован", tgID)
	}
	return fmt.Sprintf("✅ Игрок %d разблокирован", tgID)
}

func (b *AdminBot) handleTop(ctx context.Context, args string) string {
	limit := 10
	if n, err := strconv.Atoi(strings.TrimSpace(args)); err == nil && n > 0 && n <= 50 {
		limit = n
	}

	entries, err := b.players.GetTopByEarnings(ctx, limit)
	if err != nil {
		return fmt.Sprintf("❌ Ошибка: %v", err)
	}

	var sb strings.Builder
	sb.WriteString("<b>🏆 Топ игроков</b>\n\n")
	for _, e := range entries {
		name := e.Username
		if name == "" {
			name = e.FirstName
		}
		fmt.Fprintf(&sb, "%d. %s - ур. %d, %.0f 💎\n", e.Rank, name, e.Level, e.TotalCrystalsEarned)
	}
	return sb.String()
}

func parseTgID(args string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(args), 10, 64)
}
