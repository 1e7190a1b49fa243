package progress

import (
	"testing"
	"time"
)

func TestCalculateStreak(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name         string
		previous     int
		lastActivity time.Time
		event        time.Time
		want         int
	}{
		{"next day extends", 5, now.Add(-24 * time.Hour), now, 6},
		{"two day gap resets", 5, now.Add(-48 * time.Hour), now, 1},
		{"same day extends", 5, now.Add(-2 * time.Hour), now, 6},
		{"thirty six hours extends", 5, now.Add(-36 * time.Hour), now, 6},
		{"first activity", 0, now, now, 1},
		{"long gap resets", 30, now.Add(-30 * 24 * time.Hour), now, 1},
		{"just under two days extends", 5, now.Add(-48*time.Hour + time.Minute), now, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateStreak(tt.previous, tt.lastActivity, tt.event)
			if got != tt.want {
				t.Errorf("CalculateStreak(%d, %v, %v) = %d, want %d",
					tt.previous, tt.lastActivity, tt.event, got, tt.want)
			}
		})
	}
}

func TestCalculateStreak_RepeatSessionsSameDay(t *testing.T) {
	now := time.Now()

	// there is no once-per-day cap: every call inside the window increments
	first := CalculateStreak(5, now.Add(-20*time.Hour), now)
	if first != 6 {
		t.Fatalf("first session streak = %d, want 6", first)
	}
	second := CalculateStreak(first, now, now.Add(time.Hour))
	if second != 7 {
		t.Errorf("second session streak = %d, want 7", second)
	}
}
