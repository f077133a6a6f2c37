// Package economy содержит чистые формулы экономики. Это единственный
// источник правды для наград: серверные сервисы и любой офлайн-режим
// клиента обязаны считать по этим функциям, а не дублировать математику.
package economy

import (
	"math"
	"math/rand"
	"time"
)

// Награда за один клик. Плоская, без масштабирования по уровню:
// сервер авторитетен, клиентский множитель уровня не поддерживается.
const (
	ClickCrystals = 1.0
	ClickXP       = 0.5
)

// Пассивное накопление
const (
	PassiveMinClaimInterval = 6 * time.Minute
	PassiveMaxOfflineHours  = 8.0
	InactivityPenaltyDays   = 10
	XPPenaltyFraction       = 0.3
)

// Сундук (ежедневный бонус)
const (
	chestBaseMin = 100
	chestBaseMax = 150
)

// StreakMilestones - бонус камней за точное значение нового стрика.
// Плоский, не кумулятивный; за стрики вне таблицы бонуса нет.
var StreakMilestones = map[int]int64{
	3:  50,
	7:  150,
	14: 400,
}

// XPForNextLevel возвращает порог опыта для перехода с level на level+1.
func XPForNextLevel(level int) float64 {
	return math.Floor(150 * math.Pow(1.4, float64(level-1)))
}

// ApplyClick прибавляет опыт клика и проверяет порог уровня.
// Порог проверяется один раз: плоская награда не может перепрыгнуть
// два уровня за клик.
func ApplyClick(xp float64, level int) (newXP float64, newLevel int, leveledUp bool) {
	newXP = xp + ClickXP
	newLevel = level
	if threshold := XPForNextLevel(level); newXP >= threshold {
		newXP -= threshold
		newLevel++
		leveledUp = true
	}
	return newXP, newLevel, leveledUp
}

// IsAccessoryMilestone сообщает, положен ли аксессуар за достижение уровня
func IsAccessoryMilestone(level int) bool {
	return level%5 == 0 || level == 15
}

// OfflineCrystals считает пассивный доход за offline-интервал.
// Время капится восемью часами, результат округляется вниз.
func OfflineCrystals(passiveRate float64, elapsed time.Duration) (crystals float64, hours float64) {
	hours = elapsed.Hours()
	if hours > PassiveMaxOfflineHours {
		hours = PassiveMaxOfflineHours
	}
	if hours < 0 {
		hours = 0
	}
	return math.Floor(passiveRate * hours * 3600), hours
}

// InactivityPenalty возвращает штраф опыта за долгое отсутствие.
// Опыт никогда не уходит ниже нуля.
func InactivityPenalty(xp float64) (newXP float64, penalty float64) {
	penalty = math.Floor(xp * XPPenaltyFraction)
	newXP = xp - penalty
	if newXP < 0 {
		newXP = 0
	}
	return newXP, penalty
}

// UTCDate усекает момент до календарной даты UTC
func UTCDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CanClaimChest - сундук доступен, если сегодня (UTC) его ещё не забирали
func CanClaimChest(lastClaim *time.Time, now time.Time) bool {
	if lastClaim == nil {
		return true
	}
	return UTCDate(*lastClaim).Before(UTCDate(now))
}

// SecondsToUTCMidnight - сколько секунд осталось до следующего сундука
func SecondsToUTCMidnight(now time.Time) int64 {
	next := UTCDate(now).AddDate(0, 0, 1)
	return int64(next.Sub(now.UTC()).Seconds())
}

// NextStreak: стрик растёт только если прошлая отметка была ровно вчера
// по UTC, любой другой разрыв сбрасывает его в 1.
func NextStreak(lastStreakDate *time.Time, currentStreak int, now time.Time) int {
	if lastStreakDate == nil {
		return 1
	}
	yesterday := UTCDate(now).AddDate(0, 0, -1)
	if UTCDate(*lastStreakDate).Equal(yesterday) {
		return currentStreak + 1
	}
	return 1
}

// StreakBonus возвращает бонус камней за новое значение стрика (0 если нет)
func StreakBonus(streak int) int64 {
	return StreakMilestones[streak]
}

// ChestCrystals - базовая награда сундука, равномерно из [100,150)
func ChestCrystals() int64 {
	return int64(chestBaseMin + rand.Intn(chestBaseMax-chestBaseMin))
}

// DiscountedPrice применяет скидку к одной валютной ноге цены.
// Скидка действует только у золотых позиций с положительным процентом.
func DiscountedPrice(price int64, isGolden bool, discountPercent int) int64 {
	if !isGolden || discountPercent <= 0 {
		return price
	}
	return int64(math.Floor(float64(price) * (1 - float64(discountPercent)/100)))
}
