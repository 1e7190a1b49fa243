// Package analytics sinks lesson completion events into ClickHouse as
// flat fact rows. Writes are buffered in-process and flushed in
// batches; a lost batch is logged, never retried, and never surfaces
// to the caller. The learning record of truth stays in MySQL.
package analytics

import "context"

// Writer buffers completion facts and flushes them in batches.
type Writer interface {
	// Start launches the background flush loop. Further calls are no-ops.
	Start() error

	// Write enqueues facts for asynchronous insertion. It fails only on
	// buffer admission, never on insert outcome.
	Write(ctx context.Context, facts ...CompletionFact) error

	// Close drains the buffer, flushes what remains and closes the
	// connection.
	Close() error
}
