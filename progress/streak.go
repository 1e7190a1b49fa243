package progress

import (
	"math"
	"time"
)

// CalculateStreak returns the new streak for an activity at eventDate given
// the previous streak and the last activity timestamp. The day difference is
// floor((eventDate - lastActivityDate) / 24h); a difference of at most one
// day extends the streak, anything larger resets it to 1.
//
// Every call inside the one-day window increments, including repeat calls on
// the same day. There is no once-per-calendar-day cap.
func CalculateStreak(previousStreak int, lastActivityDate, eventDate time.Time) int {
	daysDiff := int(math.Floor(eventDate.Sub(lastActivityDate).Hours() / 24))
	if daysDiff <= 1 {
		return previousStreak + 1
	}
	return 1
}
