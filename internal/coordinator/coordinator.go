package coordinator

import (
	"context"
	"sync"
	"time"
)

// Saver runs one logical persistence pass.
type Saver func(ctx context.Context) error

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// nopLogger discards everything; used when no logger is supplied.
type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Coordinator composes the two concurrency guards around persistence:
//
//   - Save is debounced with trailing coalescing: requests arriving while
//     a run is in flight collapse into exactly one follow-up run.
//   - Open is single-flighted: a call arriving while another open is in
//     flight is dropped (first wins), never queued, so the tree is never
//     torn mid-replacement.
//
// Pause/Resume suppress save requests around bulk tree replacement.
type Coordinator struct {
	saver  Saver
	logger Logger

	mu      sync.Mutex
	saving  bool
	pending bool
	opening bool
	paused  int

	metrics *metrics
}

// New creates a coordinator around the given saver. A nil logger is
// replaced with a no-op logger.
func New(saver Saver, logger Logger) (*Coordinator, error) {
	if logger == nil {
		logger = nopLogger{}
	}
	m, err := newMetrics()
	if err != nil {
		return nil, err
	}
	return &Coordinator{
		saver:   saver,
		logger:  logger,
		metrics: m,
	}, nil
}

// Save runs the saver, coalescing concurrent requests. When a run is
// already in flight the request is absorbed into one trailing run and
// Save returns nil immediately; the caller owning the in-flight run
// receives any error. While paused, requests are dropped.
func (c *Coordinator) Save(ctx context.Context) error {
	c.mu.Lock()
	if c.paused > 0 {
		c.mu.Unlock()
		return nil
	}
	if c.saving {
		c.pending = true
		c.mu.Unlock()
		c.metrics.coalesced(ctx)
		return nil
	}
	c.saving = true
	c.mu.Unlock()

	var err error
	for {
		start := time.Now()
		err = c.saver(ctx)
		c.metrics.saved(ctx, time.Since(start), err)

		c.mu.Lock()
		if err != nil || !c.pending || c.paused > 0 {
			// Release the guard even on failure so the next request can
			// attempt a save; retry policy belongs to the caller. A pause
			// arriving mid-run drops the trailing run with it.
			c.pending = false
			c.saving = false
			c.mu.Unlock()
			break
		}
		c.pending = false
		c.mu.Unlock()
		c.logger.Debug("running coalesced save")
	}

	if err != nil {
		c.logger.Error("save failed", "error", err)
	}
	return err
}

// Open runs fn under the single-flight guard. A call arriving while
// another open is executing returns nil without effect.
func (c *Coordinator) Open(ctx context.Context, fn func(context.Context) error) error {
	c.mu.Lock()
	if c.opening {
		c.mu.Unlock()
		c.metrics.openDropped(ctx)
		c.logger.Debug("open already in flight, dropping request")
		return nil
	}
	c.opening = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.opening = false
		c.mu.Unlock()
	}()

	return fn(ctx)
}

// Pause suppresses save requests until a matching Resume. Calls nest.
func (c *Coordinator) Pause() {
	c.mu.Lock()
	c.paused++
	c.mu.Unlock()
}

// Resume re-enables save requests suppressed by Pause.
func (c *Coordinator) Resume() {
	c.mu.Lock()
	if c.paused > 0 {
		c.paused--
	}
	c.mu.Unlock()
}
