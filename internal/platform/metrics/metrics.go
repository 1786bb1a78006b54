package metrics

import (
	"sync/atomic"
	"time"
)

type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	totalDurationMs uint64
	pushTotal       uint64
	pushFailures    uint64
	pullTotal       uint64
	pullDiscarded   uint64
	pullFailures    uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) RecordPush(failed bool) {
	atomic.AddUint64(&c.pushTotal, 1)
	if failed {
		atomic.AddUint64(&c.pushFailures, 1)
	}
}

func (c *Collector) RecordPull(discarded, failed bool) {
	atomic.AddUint64(&c.pullTotal, 1)
	if discarded {
		atomic.AddUint64(&c.pullDiscarded, 1)
	}
	if failed {
		atomic.AddUint64(&c.pullFailures, 1)
	}
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":     total,
		"errorsTotal":       errs,
		"avgDurationMs":     avg,
		"totalDurationMs":   totalMs,
		"syncPushTotal":     atomic.LoadUint64(&c.pushTotal),
		"syncPushFailures":  atomic.LoadUint64(&c.pushFailures),
		"syncPullTotal":     atomic.LoadUint64(&c.pullTotal),
		"syncPullDiscarded": atomic.LoadUint64(&c.pullDiscarded),
		"syncPullFailures":  atomic.LoadUint64(&c.pullFailures),
	}
}
