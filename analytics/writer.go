package analytics

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/smallnest/chanx"
	"go.uber.org/zap"

	"github.com/lingualoop/go-core/logger"
	"github.com/lingualoop/go-core/routine"
)

type chWriter struct {
	config *Config
	logger logger.Logger

	conn driver.Conn

	dataChan    *chanx.UnboundedChan[CompletionFact]
	flushTicker *time.Ticker

	runner    routine.Runner
	done      chan struct{}
	startOnce sync.Once
	closed    atomic.Bool
}

// New connects to ClickHouse and builds a fact writer. The caller must
// call Start to begin flushing and Close to shut down.
func New(log logger.Logger, cfg *Config) (Writer, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		merged := *cfg
		cfg = &merged
	}
	if cfg.Writer == nil {
		cfg.Writer = DefaultWriterConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: cfg.Hosts,
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		DialTimeout: cfg.DialTimeout,
		Debug:       cfg.Debug,
		Settings:    cfg.Settings,
	})
	if err != nil {
		return nil, ErrConnection(err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		conn.Close()
		return nil, ErrConnection(err)
	}

	w := &chWriter{
		config:      cfg,
		logger:      log,
		conn:        conn,
		dataChan:    chanx.NewUnboundedChan[CompletionFact](context.Background(), cfg.Writer.FlushSize),
		flushTicker: time.NewTicker(cfg.Writer.FlushInterval),
		runner:      routine.New(log),
		done:        make(chan struct{}),
	}

	log.Info("analytics writer initialized",
		zap.Strings("hosts", cfg.Hosts),
		zap.String("database", cfg.Database),
		zap.Duration("flush_interval", cfg.Writer.FlushInterval),
		zap.Int("flush_size", cfg.Writer.FlushSize),
		zap.Int("min_flush_size", cfg.Writer.MinFlushSize),
		zap.Duration("max_wait_time", cfg.Writer.MaxWaitTime))

	return w, nil
}

func (w *chWriter) Start() error {
	w.startOnce.Do(func() {
		w.runner.GoNamed("analytics-flush", w.processLoop)
		w.logger.Info("analytics writer started")
	})
	return nil
}

func (w *chWriter) Write(ctx context.Context, facts ...CompletionFact) error {
	if len(facts) == 0 {
		return nil
	}
	if w.closed.Load() {
		return ErrWriterClosed
	}

	for _, fact := range facts {
		select {
		case w.dataChan.In <- fact:
		case <-ctx.Done():
			return ctx.Err()
		default:
			w.logger.Error("buffer full, dropping completion facts",
				zap.Int("buffered", w.dataChan.Len()),
				zap.Int("facts", len(facts)))
			return ErrBufferFull
		}
	}
	return nil
}

func (w *chWriter) Close() error {
	if !w.closed.CompareAndSwap(false, true) {
		return nil
	}

	w.logger.Info("analytics writer shutting down")

	w.flushTicker.Stop()
	close(w.done)
	close(w.dataChan.In)
	w.runner.Wait()

	err := w.conn.Close()
	if err != nil {
		w.logger.Error("failed to close clickhouse connection", zap.Error(err))
	}

	w.logger.Info("analytics writer shutdown complete")
	return err
}

func (w *chWriter) processLoop() {
	buffer := make([]CompletionFact, 0, w.config.Writer.FlushSize)
	var firstAt time.Time

	for {
		select {
		case fact, ok := <-w.dataChan.Out:
			if !ok {
				// channel drained and closed during shutdown
				if len(buffer) > 0 {
					w.flush(buffer)
				}
				return
			}
			if len(buffer) == 0 {
				firstAt = time.Now()
			}
			buffer = append(buffer, fact)

			if len(buffer) >= w.config.Writer.FlushSize {
				w.flush(buffer)
				buffer = buffer[:0]
				firstAt = time.Time{}
			}

		case <-w.flushTicker.C:
			if len(buffer) == 0 {
				continue
			}
			if !w.shouldFlush(len(buffer), firstAt) {
				w.logger.Debug("deferring flush until batch grows",
					zap.Int("buffered", len(buffer)),
					zap.Int("min_flush_size", w.config.Writer.MinFlushSize),
					zap.Duration("waited", time.Since(firstAt)))
				continue
			}
			w.flush(buffer)
			buffer = buffer[:0]
			firstAt = time.Time{}

		case <-w.done:
			w.logger.Info("flush loop stopping, draining buffered facts",
				zap.Int("buffered", len(buffer)),
				zap.Int("pending", w.dataChan.Len()))

			// In is closed by now, so Out closes once the backlog is
			// handed over
			for fact := range w.dataChan.Out {
				buffer = append(buffer, fact)
			}
			if len(buffer) > 0 {
				w.flush(buffer)
			}

			w.logger.Info("flush loop stopped")
			return
		}
	}
}

// shouldFlush applies the MinFlushSize / MaxWaitTime strategy to a
// time-triggered flush. Size-triggered flushes bypass it.
func (w *chWriter) shouldFlush(buffered int, firstAt time.Time) bool {
	minFlushSize := w.config.Writer.MinFlushSize
	maxWaitTime := w.config.Writer.MaxWaitTime

	if minFlushSize == 0 {
		return true
	}
	if buffered >= minFlushSize {
		return true
	}
	if maxWaitTime > 0 && time.Since(firstAt) >= maxWaitTime {
		w.logger.Debug("max wait time exceeded, forcing flush",
			zap.Int("buffered", buffered),
			zap.Duration("waited", time.Since(firstAt)))
		return true
	}
	return false
}

func (w *chWriter) flush(facts []CompletionFact) {
	if err := w.insert(context.Background(), facts); err != nil {
		w.logger.Error("failed to write completion facts",
			zap.Int("rows", len(facts)),
			zap.Error(err))
		return
	}
	w.logger.Debug("flush completed", zap.Int("rows", len(facts)))
}

func (w *chWriter) insert(ctx context.Context, facts []CompletionFact) error {
	if len(facts) == 0 {
		return nil
	}

	batch, err := w.conn.PrepareBatch(ctx, insertQuery())
	if err != nil {
		return ErrInsert(err)
	}
	for i := range facts {
		if err := facts[i].appendTo(batch); err != nil {
			return ErrInsert(err)
		}
	}
	if err := batch.Send(); err != nil {
		return ErrInsert(err)
	}
	return nil
}
