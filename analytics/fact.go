package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/shopspring/decimal"

	"github.com/lingualoop/go-core/events"
)

// FactTable is the ClickHouse table completion facts are written to.
const FactTable = "lesson_completion_facts"

// CompletionFact is one row of lesson_completion_facts. Score is
// Decimal(5,2) and TimeSpentSeconds Int32, both Nullable; the
// remaining columns are non-nullable.
type CompletionFact struct {
	UserID           string
	LessonID         string
	CompletionID     string
	Source           string
	ExperienceGained int32
	Score            *decimal.Decimal
	TimeSpentSeconds *int32
	CompletedAt      time.Time
	EmittedAt        time.Time
}

// FactFromEvent flattens a completion event into a fact row. Scores
// are rounded to the column's two decimal places.
func FactFromEvent(e events.CompletionEvent) CompletionFact {
	f := CompletionFact{
		UserID:           e.UserID,
		LessonID:         e.LessonID,
		CompletionID:     e.CompletionID,
		Source:           e.Source,
		ExperienceGained: int32(e.ExperienceGained),
		CompletedAt:      e.CompletedAt,
		EmittedAt:        e.EmittedAt,
	}
	if e.Score != nil {
		score := decimal.NewFromFloat(*e.Score).Round(2)
		f.Score = &score
	}
	if e.TimeSpentSeconds != nil {
		spent := int32(*e.TimeSpentSeconds)
		f.TimeSpentSeconds = &spent
	}
	return f
}

// factColumns lists the insert columns in appendTo order.
var factColumns = []string{
	"user_id",
	"lesson_id",
	"completion_id",
	"source",
	"experience_gained",
	"score",
	"time_spent_seconds",
	"completed_at",
	"emitted_at",
}

func insertQuery() string {
	return fmt.Sprintf("INSERT INTO `%s` (%s)", FactTable, strings.Join(factColumns, ", "))
}

func (f CompletionFact) appendTo(batch driver.Batch) error {
	return batch.Append(
		f.UserID,
		f.LessonID,
		f.CompletionID,
		f.Source,
		f.ExperienceGained,
		f.Score,
		f.TimeSpentSeconds,
		f.CompletedAt,
		f.EmittedAt,
	)
}
