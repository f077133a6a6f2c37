package repository

import (
	"testing"
	"time"

	"petshop_tycoon/internal/domain"
)

func TestPeriodStart(t *testing.T) {
	// Среда 2025-11-12 15:30 UTC
	now := time.Date(2025, 11, 12, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		questType domain.QuestType
		want      time.Time
	}{
		{domain.QuestTypeDaily, time.Date(2025, 11, 12, 0, 0, 0, 0, time.UTC)},
		{domain.QuestTypeWeekly, time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC)},   // понедельник
		{domain.QuestTypeSeasonal, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)}, // 4-й квартал
	}

	for _, tt := range tests {
		got := PeriodStart(tt.questType, now)
		if !got.Equal(tt.want) {
			t.Errorf("PeriodStart(%s) = %v, want %v", tt.questType, got, tt.want)
		}
	}
}

func TestPeriodStartWeeklyOnSunday(t *testing.T) {
	// Воскресенье относится к неделе прошлого понедельника
	sunday := time.Date(2025, 11, 16, 23, 0, 0, 0, time.UTC)
	want := time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC)

	if got := PeriodStart(domain.QuestTypeWeekly, sunday); !got.Equal(want) {
		t.Fatalf("PeriodStart(weekly, sunday) = %v, want %v", got, want)
	}
}
