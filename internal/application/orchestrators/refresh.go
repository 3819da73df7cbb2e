package orchestrators

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"sportsdesk/internal/adapters/http/perf"
	"sportsdesk/internal/application/projections"
	"sportsdesk/internal/domain/metrics"
)

// MetricsPublisher pushes an applied metrics snapshot to outside subscribers.
type MetricsPublisher interface {
	Publish(ctx context.Context, generation uint64, m metrics.Metrics) error
}

// publishTimeout bounds one background publish.
const publishTimeout = 5 * time.Second

// RefreshDeps holds dependencies for a Refresher.
type RefreshDeps struct {
	Snapshot  projections.SnapshotDeps
	Target    projections.RenderTarget
	Publisher MetricsPublisher // optional
	Collector *perf.Collector  // optional
}

// RefreshResult describes what one refresh cycle did.
type RefreshResult struct {
	Generation uint64          `json:"generation"`
	Applied    bool            `json:"applied"`
	Superseded bool            `json:"superseded"`
	Metrics    metrics.Metrics `json:"metrics"`
	Err        error           `json:"-"`
}

// Refresher runs aggregation cycles and projects them onto the render target.
// Every trigger takes a new generation; a cycle is applied only if no newer
// generation was applied before it finished.
type Refresher struct {
	deps   RefreshDeps
	issued atomic.Uint64

	mu          sync.Mutex
	applied     uint64
	lastMetrics metrics.Metrics
	lastAt      time.Time

	pubMu      sync.Mutex
	published  uint64
	publishing sync.WaitGroup
}

// NewRefresher creates a Refresher.
// PRE: deps.Snapshot sources and deps.Target are non-nil
func NewRefresher(deps RefreshDeps) *Refresher {
	return &Refresher{deps: deps}
}

// Refresh runs one aggregation cycle.
// PRE: none
// POST: Failures are logged and returned in the result; the target is untouched on failure
// INVARIANT: The target never moves from a newer generation back to an older one
func (r *Refresher) Refresh(ctx context.Context) RefreshResult {
	gen := r.issued.Add(1)
	start := time.Now()

	m, err := projections.QueryMetrics(ctx, r.deps.Snapshot)
	r.record(start, err != nil)
	if err != nil {
		slog.Warn("refresh_failed", "generation", gen, "error", err)
		return RefreshResult{Generation: gen, Err: err}
	}

	r.mu.Lock()
	if gen <= r.applied {
		r.mu.Unlock()
		slog.Debug("refresh_superseded", "generation", gen)
		return RefreshResult{Generation: gen, Superseded: true, Metrics: m}
	}
	r.applied = gen
	written := projections.ProjectSummary(m, r.deps.Target)
	r.lastMetrics = m
	r.lastAt = time.Now()
	r.mu.Unlock()

	slog.Debug("refresh_applied", "generation", gen, "slots", written)

	if r.deps.Publisher != nil {
		r.publishing.Add(1)
		go r.publish(context.WithoutCancel(ctx), gen, m)
	}
	return RefreshResult{Generation: gen, Applied: true, Metrics: m}
}

// publish sends one applied snapshot outside the caller's request.
// INVARIANT: Generations are published in increasing order; an older one arriving late is dropped
func (r *Refresher) publish(ctx context.Context, gen uint64, m metrics.Metrics) {
	defer r.publishing.Done()
	r.pubMu.Lock()
	defer r.pubMu.Unlock()
	if gen <= r.published {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := r.deps.Publisher.Publish(ctx, gen, m); err != nil {
		slog.Warn("metrics_publish_failed", "generation", gen, "error", err)
		return
	}
	r.published = gen
}

// Flush waits for in-flight publishes to finish.
func (r *Refresher) Flush() {
	r.publishing.Wait()
}

// Last returns the most recently applied metrics and their generation.
// POST: ok is false until a cycle has been applied
func (r *Refresher) Last() (m metrics.Metrics, generation uint64, at time.Time, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastMetrics, r.applied, r.lastAt, r.applied > 0
}

func (r *Refresher) record(start time.Time, failed bool) {
	r.deps.Collector.Record(perf.Entry{
		Kind:       perf.KindRefresh,
		Path:       "refresh",
		Failed:     failed,
		DurationMs: float64(time.Since(start).Microseconds()) / 1000.0,
		Timestamp:  start,
	})
}
