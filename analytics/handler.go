package analytics

import (
	"context"

	"github.com/lingualoop/go-core/events"
)

// NewEventHandler adapts a Writer into an events.Handler, so a Kafka
// consumer can sink the completion stream straight into ClickHouse.
// The handler fails only on buffer admission, which lets the consumer
// redeliver instead of losing the fact.
func NewEventHandler(w Writer) events.Handler {
	return func(ctx context.Context, event events.CompletionEvent) error {
		return w.Write(ctx, FactFromEvent(event))
	}
}
