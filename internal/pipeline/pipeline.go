// Package pipeline runs the periodic fetch-normalize-store loop.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/patrolwatch/incident-etl/internal/domain"
	"github.com/patrolwatch/incident-etl/internal/observability"
	"github.com/patrolwatch/incident-etl/internal/snapshot"
)

// Fetcher retrieves the raw rows of one source sheet.
type Fetcher interface {
	FetchRows(ctx context.Context, sheet domain.SourceFormat, url string) ([]domain.RawRow, error)
}

// Publisher forwards normalized events to a downstream sink.
type Publisher interface {
	PublishEvents(ctx context.Context, runID string, events []domain.Event) error
}

// Source binds a sheet format to its CSV export URL.
type Source struct {
	Format domain.SourceFormat
	URL    string
}

// Pipeline refreshes the snapshot on a fixed interval. Every pass recomputes
// everything from the live sheets; there is no incremental state to corrupt.
type Pipeline struct {
	fetcher   Fetcher
	store     snapshot.Store
	publisher Publisher // nil when no sink is configured
	sources   []Source
	interval  time.Duration
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
	ready     atomic.Bool
}

// New creates a Pipeline over the given sources.
func New(fetcher Fetcher, store snapshot.Store, publisher Publisher, sources []Source, interval time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		fetcher:   fetcher,
		store:     store,
		publisher: publisher,
		sources:   sources,
		interval:  interval,
		logger:    logger,
		metrics:   metrics,
		clock:     clockwork.NewRealClock(),
	}
}

// SetClock replaces the wall clock, for tests.
func (p *Pipeline) SetClock(clock clockwork.Clock) {
	p.clock = clock
}

// CheckReadiness returns nil once at least one refresh has stored a snapshot.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no snapshot produced yet")
	}
	return nil
}

// Run refreshes immediately, then on every interval tick until the context
// is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "interval", p.interval, "sources", len(p.sources))
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	p.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		case <-p.clock.After(p.interval):
			p.refresh(ctx)
		}
	}
}

// sheetResult is one sheet's fetch outcome within a refresh pass.
type sheetResult struct {
	rows []domain.RawRow
	err  error
}

// refresh runs one complete fetch-normalize-store pass. A sheet that fails
// to fetch contributes zero rows and degrades the pass; the pass fails
// outright only when every sheet fails, so a stale snapshot is kept rather
// than replaced with an empty one.
func (p *Pipeline) refresh(ctx context.Context) {
	start := p.clock.Now()

	results := make([]sheetResult, len(p.sources))
	var wg sync.WaitGroup
	for i, src := range p.sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			rows, err := p.fetchSheet(ctx, src)
			results[i] = sheetResult{rows: rows, err: err}
		}(i, src)
	}
	wg.Wait()

	if ctx.Err() != nil {
		return
	}

	failed := 0
	events := make([]domain.Event, 0, 256)
	for i, src := range p.sources {
		if results[i].err != nil {
			failed++
			continue
		}
		events = append(events, p.assembleSheet(results[i].rows, src.Format)...)
	}

	if failed == len(p.sources) {
		p.logger.Error("refresh failed, every sheet fetch errored")
		p.metrics.RefreshRuns.WithLabelValues("failed").Inc()
		return
	}

	lanes := domain.CorrelateLanes(events)
	p.metrics.LanesActive.Set(float64(lanes.ActiveCount))

	snap := snapshot.Snapshot{
		RunID:     uuid.NewString(),
		FetchedAt: p.clock.Now(),
		Events:    events,
		Lanes:     lanes,
	}
	if err := p.store.Put(ctx, snap); err != nil {
		p.logger.Error("snapshot store failed", "error", err, "run_id", snap.RunID)
		p.metrics.RefreshRuns.WithLabelValues("failed").Inc()
		return
	}
	p.ready.Store(true)

	outcome := "success"
	if failed > 0 {
		outcome = "degraded"
	}
	p.metrics.RefreshRuns.WithLabelValues(outcome).Inc()
	p.metrics.RefreshDuration.Observe(p.clock.Since(start).Seconds())

	p.logger.Info("refresh complete",
		"run_id", snap.RunID,
		"outcome", outcome,
		"events", len(events),
		"active_lanes", lanes.ActiveCount,
	)

	p.publish(ctx, snap)
}

// fetchSheet fetches one sheet and counts its rows. Fetch errors and
// durations are recorded by the sheets client itself.
func (p *Pipeline) fetchSheet(ctx context.Context, src Source) ([]domain.RawRow, error) {
	rows, err := p.fetcher.FetchRows(ctx, src.Format, src.URL)
	if err != nil {
		p.logger.Warn("sheet fetch failed", "sheet", string(src.Format), "error", err)
		return nil, err
	}
	p.metrics.RowsFetched.WithLabelValues(string(src.Format)).Add(float64(len(rows)))
	return rows, nil
}

// assembleSheet normalizes one sheet's rows and records drop and category
// counts.
func (p *Pipeline) assembleSheet(rows []domain.RawRow, format domain.SourceFormat) []domain.Event {
	events, dropped := domain.AssembleSheet(rows, format)
	for reason, n := range dropped {
		p.metrics.RowsDropped.WithLabelValues(string(format), reason).Add(float64(n))
	}
	for _, e := range events {
		p.metrics.EventsNormalized.WithLabelValues(e.Category).Inc()
	}
	return events
}

// publish forwards the snapshot's events to the sink, if one is configured.
// Publish failures never fail the refresh; the API still serves the new
// snapshot.
func (p *Pipeline) publish(ctx context.Context, snap snapshot.Snapshot) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.PublishEvents(ctx, snap.RunID, snap.Events); err != nil {
		p.logger.Error("publish failed", "error", err, "run_id", snap.RunID)
		p.metrics.PublishErrors.Inc()
		return
	}
	p.metrics.SnapshotsPublished.Inc()
}
