package sync

import (
	"context"
	"errors"
	"log/slog"
	stdsync "sync"
	"time"

	"payledger/internal/domain/ledger"
	"payledger/internal/platform/metrics"
)

// Source is the slice of the ledger store the coordinator needs.
type Source interface {
	Snapshot() ledger.Ledger
	LastUpdated() int64
	Replace(remote ledger.Ledger) error
	MarkSynced() error
}

type Options struct {
	Debounce   time.Duration // quiet period after the last local mutation before a push fires
	Lockout    time.Duration // window after a local mutation during which non-forced pulls are skipped
	Interval   time.Duration // background pull period
	HTTPClient *Client
	Resolver   ConflictResolver
	Metrics    *metrics.Collector
}

// Coordinator keeps the local ledger and the remote document eventually
// consistent under last-write-wins. Local mutations arm a debounced push so
// bursts of edits coalesce into one publish; a background ticker pulls the
// remote independently. Sync never surfaces errors to the caller of
// Notify; failures are logged and absorbed until the next cycle.
type Coordinator struct {
	client   *Client
	source   Source
	resolver ConflictResolver
	metrics  *metrics.Collector

	debounce time.Duration
	lockout  time.Duration
	interval time.Duration

	mu        stdsync.Mutex
	timer     *time.Timer
	lastLocal time.Time
	closed    bool

	done chan struct{}
	wg   stdsync.WaitGroup
}

func NewCoordinator(source Source, opts Options) *Coordinator {
	resolver := opts.Resolver
	if resolver == nil {
		resolver = LastWriteWins{}
	}
	return &Coordinator{
		client:   opts.HTTPClient,
		source:   source,
		resolver: resolver,
		metrics:  opts.Metrics,
		debounce: opts.Debounce,
		lockout:  opts.Lockout,
		interval: opts.Interval,
		done:     make(chan struct{}),
	}
}

// Start launches the background pull loop. At most one loop runs per
// coordinator.
func (c *Coordinator) Start() {
	c.wg.Add(1)
	go c.pollLoop()
}

func (c *Coordinator) pollLoop() {
	defer c.wg.Done()
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if err := c.Pull(context.Background(), false); err != nil && !c.discardable(err) {
				slog.Warn("background pull failed", "err", err)
			}
		}
	}
}

// Notify records a local mutation: it stamps the lockout clock and (re)arms
// the debounce timer. Only one pending timer exists at a time, so a burst of
// edits inside the quiet period yields exactly one push of the final state.
func (c *Coordinator) Notify() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.lastLocal = time.Now()
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() {
		// Register under the lock so Close either waits for this push or
		// has already marked the coordinator closed.
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return
		}
		c.wg.Add(1)
		c.mu.Unlock()
		defer c.wg.Done()

		if err := c.Push(context.Background()); err != nil {
			slog.Warn("debounced push failed", "err", err)
		}
	})
}

// Push publishes the current snapshot best-effort. Remote persistence is
// assumed on transport success; lastSync advances optimistically.
func (c *Coordinator) Push(ctx context.Context) error {
	if c.client == nil || c.client.Endpoint == "" {
		return ErrNoEndpoint
	}
	err := c.client.Push(ctx, c.source.Snapshot())
	if c.metrics != nil {
		c.metrics.RecordPush(err != nil)
	}
	if err != nil {
		return err
	}
	if err := c.source.MarkSynced(); err != nil {
		slog.Warn("mark synced failed", "err", err)
	}
	return nil
}

// Pull fetches the remote document and replaces the local ledger when the
// conflict resolver says the remote wins. Non-forced pulls are skipped while
// a recent local edit is inside the lockout window, which keeps a scheduled
// pull from clobbering an edit that has not had its chance to push yet. This
// is a heuristic: a slow response landing after the window with a newer
// remote timestamp still legitimately overrides.
func (c *Coordinator) Pull(ctx context.Context, force bool) error {
	if c.client == nil || c.client.Endpoint == "" {
		return ErrNoEndpoint
	}

	if !force {
		c.mu.Lock()
		recent := !c.lastLocal.IsZero() && time.Since(c.lastLocal) < c.lockout
		c.mu.Unlock()
		if recent {
			if c.metrics != nil {
				c.metrics.RecordPull(true, false)
			}
			return ErrLocked
		}
	}

	remote, err := c.client.Pull(ctx)
	if err != nil {
		if c.metrics != nil {
			c.metrics.RecordPull(errors.Is(err, ErrMalformedDocument), true)
		}
		return err
	}

	if !c.resolver.RemoteWins(c.source.LastUpdated(), remote.LastUpdated, force) {
		if c.metrics != nil {
			c.metrics.RecordPull(true, false)
		}
		return ErrRemoteStale
	}

	if err := c.source.Replace(remote); err != nil {
		return err
	}
	if c.metrics != nil {
		c.metrics.RecordPull(false, false)
	}
	return nil
}

// discardable reports whether a pull error is part of normal operation
// rather than a failure worth logging.
func (c *Coordinator) discardable(err error) bool {
	return errors.Is(err, ErrLocked) || errors.Is(err, ErrRemoteStale) || errors.Is(err, ErrNoEndpoint)
}

// Close stops the debounce timer and the pull loop, waiting out a push
// whose timer already fired. It does not flush a pending push; the next
// start pushes whatever survived on disk.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()

	close(c.done)
	c.wg.Wait()
}
