package economy

import (
	"testing"
	"time"
)

func TestXPForNextLevel(t *testing.T) {
	cases := []struct {
		level int
		want  float64
	}{
		{1, 150},
		{2, 210},
		{3, 294},
		{4, 411},
		{5, 576},
	}

	for _, tc := range cases {
		if got := XPForNextLevel(tc.level); got != tc.want {
			t.Fatalf("XPForNextLevel(%d) = %v; want %v", tc.level, got, tc.want)
		}
	}
}

func TestApplyClick_NoLevelUp(t *testing.T) {
	newXP, newLevel, leveledUp := ApplyClick(10, 1)
	if leveledUp {
		t.Fatalf("unexpected level up at xp=10 level=1")
	}
	if newXP != 10.5 || newLevel != 1 {
		t.Fatalf("got xp=%v level=%d; want 10.5/1", newXP, newLevel)
	}
}

func TestApplyClick_LevelUpWithRemainder(t *testing.T) {
	// порог уровня 1 = 150; 149.7 + 0.5 = 150.2 -> уровень 2, остаток 0.2
	newXP, newLevel, leveledUp := ApplyClick(149.7, 1)
	if !leveledUp {
		t.Fatalf("expected level up")
	}
	if newLevel != 2 {
		t.Fatalf("newLevel = %d; want 2", newLevel)
	}
	if diff := newXP - 0.2; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("leftover xp = %v; want 0.2", newXP)
	}
}

func TestApplyClick_SingleLevelPerClick(t *testing.T) {
	// даже с абсурдным запасом опыта за клик применяется ровно один уровень
	newXP, newLevel, leveledUp := ApplyClick(1000, 1)
	if !leveledUp || newLevel != 2 {
		t.Fatalf("got level %d; want exactly one level-up", newLevel)
	}
	if newXP != 1000.5-150 {
		t.Fatalf("leftover xp = %v; want %v", newXP, 1000.5-150)
	}
}

func TestIsAccessoryMilestone(t *testing.T) {
	cases := []struct {
		level int
		want  bool
	}{
		{4, false}, {5, true}, {10, true}, {14, false}, {15, true}, {16, false}, {20, true},
	}
	for _, tc := range cases {
		if got := IsAccessoryMilestone(tc.level); got != tc.want {
			t.Fatalf("IsAccessoryMilestone(%d) = %v; want %v", tc.level, got, tc.want)
		}
	}
}

func TestOfflineCrystals_Cap(t *testing.T) {
	// 12 часов офлайна капятся восемью
	crystals, hours := OfflineCrystals(0.5, 12*time.Hour)
	if hours != 8 {
		t.Fatalf("hours = %v; want 8", hours)
	}
	if want := float64(int64(0.5 * 8 * 3600)); crystals != want {
		t.Fatalf("crystals = %v; want %v", crystals, want)
	}
}

func TestOfflineCrystals_Floor(t *testing.T) {
	crystals, _ := OfflineCrystals(0.001, 30*time.Minute)
	// 0.001 * 0.5 * 3600 = 1.8 -> 1
	if crystals != 1 {
		t.Fatalf("crystals = %v; want 1", crystals)
	}
}

func TestInactivityPenalty(t *testing.T) {
	newXP, penalty := InactivityPenalty(100)
	if penalty != 30 || newXP != 70 {
		t.Fatalf("got xp=%v penalty=%v; want 70/30", newXP, penalty)
	}

	// опыт не уходит в минус
	newXP, _ = InactivityPenalty(0)
	if newXP != 0 {
		t.Fatalf("xp = %v; want 0", newXP)
	}
}

func TestCanClaimChest(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	if !CanClaimChest(nil, now) {
		t.Fatalf("nil last claim must allow chest")
	}

	sameDay := time.Date(2025, 6, 10, 0, 30, 0, 0, time.UTC)
	if CanClaimChest(&sameDay, now) {
		t.Fatalf("same UTC day must reject chest")
	}

	yesterday := time.Date(2025, 6, 9, 23, 59, 0, 0, time.UTC)
	if !CanClaimChest(&yesterday, now) {
		t.Fatalf("previous UTC day must allow chest")
	}

	// граница часовых поясов: 01:00 MSK 10-го = 22:00 UTC 9-го
	msk := time.FixedZone("MSK", 3*3600)
	lastLocal := time.Date(2025, 6, 10, 1, 0, 0, 0, msk)
	if !CanClaimChest(&lastLocal, now) {
		t.Fatalf("claim compares UTC dates, not local dates")
	}
}

func TestSecondsToUTCMidnight(t *testing.T) {
	now := time.Date(2025, 6, 10, 23, 59, 0, 0, time.UTC)
	if got := SecondsToUTCMidnight(now); got != 60 {
		t.Fatalf("SecondsToUTCMidnight = %d; want 60", got)
	}
}

func TestNextStreak(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	yesterday := time.Date(2025, 6, 9, 2, 0, 0, 0, time.UTC)
	twoDaysAgo := time.Date(2025, 6, 8, 2, 0, 0, 0, time.UTC)
	today := time.Date(2025, 6, 10, 1, 0, 0, 0, time.UTC)

	if got := NextStreak(nil, 0, now); got != 1 {
		t.Fatalf("nil streak date: got %d; want 1", got)
	}
	if got := NextStreak(&yesterday, 6, now); got != 7 {
		t.Fatalf("consecutive day: got %d; want 7", got)
	}
	if got := NextStreak(&twoDaysAgo, 6, now); got != 1 {
		t.Fatalf("skipped day: got %d; want 1", got)
	}
	// сегодняшняя дата не "ровно вчера" - тоже сброс
	if got := NextStreak(&today, 6, now); got != 1 {
		t.Fatalf("same day: got %d; want 1", got)
	}
}

func TestStreakBonus(t *testing.T) {
	cases := []struct {
		streak int
		want   int64
	}{
		{1, 0}, {2, 0}, {3, 50}, {4, 0}, {7, 150}, {8, 0}, {14, 400}, {15, 0}, {21, 0},
	}
	for _, tc := range cases {
		if got := StreakBonus(tc.streak); got != tc.want {
			t.Fatalf("StreakBonus(%d) = %d; want %d", tc.streak, got, tc.want)
		}
	}
}

func TestChestCrystals_Range(t *testing.T) {
	for i := 0; i < 1000; i++ {
		v := ChestCrystals()
		if v < 100 || v >= 150 {
			t.Fatalf("chest reward %d out of [100,150)", v)
		}
	}
}

func TestDiscountedPrice(t *testing.T) {
	cases := []struct {
		price    int64
		golden   bool
		discount int
		want     int64
	}{
		{100, true, 25, 75},
		{100, false, 25, 100}, // скидка только у золотых
		{100, true, 0, 100},
		{99, true, 10, 89}, // 89.1 -> floor
		{50, true, 100, 0},
	}
	for _, tc := range cases {
		if got := DiscountedPrice(tc.price, tc.golden, tc.discount); got != tc.want {
			t.Fatalf("DiscountedPrice(%d,%v,%d) = %d; want %d", tc.price, tc.golden, tc.discount, got, tc.want)
		}
	}
}
