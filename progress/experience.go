package progress

import "math"

// Score thresholds for the experience multiplier ladder
const (
	excellentScore = 90
	greatScore     = 80
	passingScore   = 60
)

// CalculateExperience returns the experience awarded for completing a lesson
// worth basePoints with the given score. A nil score awards the base value
// unchanged. Scores of 90 and above earn a 1.2 multiplier, 80 to 89 earn 1.1,
// 60 to 79 earn the base value, and below 60 earns 0.8. Multiplied values are
// floored and the result is never below 1.
func CalculateExperience(basePoints int, score *float64) int {
	points := basePoints
	if score != nil {
		switch s := *score; {
		case s >= excellentScore:
			points = int(math.Floor(float64(basePoints) * 1.2))
		case s >= greatScore:
			points = int(math.Floor(float64(basePoints) * 1.1))
		case s >= passingScore:
			// base value unchanged
		default:
			points = int(math.Floor(float64(basePoints) * 0.8))
		}
	}
	if points < 1 {
		return 1
	}
	return points
}
