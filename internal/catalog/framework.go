package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/fedcatalog/source-admin/internal/config"
	"github.com/fedcatalog/source-admin/internal/otel"
	"github.com/fedcatalog/source-admin/internal/registry"
	"github.com/fedcatalog/source-admin/internal/sources"
	"github.com/fedcatalog/source-admin/internal/status"
	"github.com/fedcatalog/source-admin/internal/telemetry"
	"github.com/fedcatalog/source-admin/internal/versions"
)

const (
	// pollJitterFraction is the maximum relative offset (±10%) applied to the poll interval
	pollJitterFraction = 0.1

	// LocalSourceType is the type reported for the local catalog descriptor
	LocalSourceType = "local"

	localSourceTitle = "Local catalog"
)

var errNotAvailable = errors.New("source reported itself unavailable")

// DefaultFramework polls the registered federated sources in the background
// and serves source-info requests from the last completed poll.
type DefaultFramework struct {
	lookup      registry.Lookup
	persistence status.StatusPersistence
	metrics     *telemetry.SourceMetrics
	tracer      trace.Tracer

	pollInterval  time.Duration
	checkTimeout  time.Duration
	maxAttempts   int
	maxConcurrent int
	localID       string
	newBackOff    func() backoff.BackOff
	now           func() time.Time

	mu       sync.RWMutex
	statuses map[string]*status.SourceStatus
	ready    bool
	stopped  bool

	// pollMu serializes scheduled polls and refreshes
	pollMu sync.Mutex

	// Lifecycle management
	lifecycleMu sync.Mutex
	cancelFunc  context.CancelFunc
	done        chan struct{}
}

var _ Framework = (*DefaultFramework)(nil)

// Option configures a DefaultFramework
type Option func(*DefaultFramework)

// WithStatusPersistence persists the last known status of every source
func WithStatusPersistence(p status.StatusPersistence) Option {
	return func(f *DefaultFramework) {
		f.persistence = p
	}
}

// WithSourceMetrics sets the metrics recorded for availability checks
func WithSourceMetrics(m *telemetry.SourceMetrics) Option {
	return func(f *DefaultFramework) {
		f.metrics = m
	}
}

// WithTracer sets the tracer used for poll spans
func WithTracer(tracer trace.Tracer) Option {
	return func(f *DefaultFramework) {
		f.tracer = tracer
	}
}

// WithPollInterval sets the base interval between polls
func WithPollInterval(d time.Duration) Option {
	return func(f *DefaultFramework) {
		if d > 0 {
			f.pollInterval = d
		}
	}
}

// WithCheckTimeout bounds every single availability check attempt
func WithCheckTimeout(d time.Duration) Option {
	return func(f *DefaultFramework) {
		if d > 0 {
			f.checkTimeout = d
		}
	}
}

// WithMaxAttempts sets the number of tries per availability check
func WithMaxAttempts(n int) Option {
	return func(f *DefaultFramework) {
		if n > 0 {
			f.maxAttempts = n
		}
	}
}

// WithMaxConcurrentChecks limits how many sources are checked in parallel
func WithMaxConcurrentChecks(n int) Option {
	return func(f *DefaultFramework) {
		if n > 0 {
			f.maxConcurrent = n
		}
	}
}

// WithLocalSourceID sets the identifier of the local catalog
func WithLocalSourceID(id string) Option {
	return func(f *DefaultFramework) {
		if id != "" {
			f.localID = id
		}
	}
}

// WithBackOff sets the retry policy factory used between check attempts
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(f *DefaultFramework) {
		f.newBackOff = newBackOff
	}
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	return b
}

// New creates a catalog framework over the sources published in lookup
func New(lookup registry.Lookup, opts ...Option) *DefaultFramework {
	var defaults *config.CatalogConfig
	f := &DefaultFramework{
		lookup:        lookup,
		pollInterval:  defaults.GetPollInterval(),
		checkTimeout:  defaults.GetCheckTimeout(),
		maxAttempts:   defaults.GetMaxAttempts(),
		maxConcurrent: defaults.GetMaxConcurrentChecks(),
		localID:       defaults.GetLocalSourceID(),
		newBackOff:    defaultBackOff,
		now:           time.Now,
		statuses:      make(map[string]*status.SourceStatus),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// NewFromConfig creates a catalog framework using the catalog section of the configuration
func NewFromConfig(lookup registry.Lookup, cfg *config.CatalogConfig, opts ...Option) *DefaultFramework {
	base := []Option{
		WithPollInterval(cfg.GetPollInterval()),
		WithCheckTimeout(cfg.GetCheckTimeout()),
		WithMaxAttempts(cfg.GetMaxAttempts()),
		WithMaxConcurrentChecks(cfg.GetMaxConcurrentChecks()),
		WithLocalSourceID(cfg.GetLocalSourceID()),
	}
	return New(lookup, append(base, opts...)...)
}

// LocalSourceID returns the identifier of the local catalog
func (f *DefaultFramework) LocalSourceID() string {
	return f.localID
}

// nextPollInterval returns the poll interval with a random jitter applied
func (f *DefaultFramework) nextPollInterval() time.Duration {
	jitter := int64(float64(f.pollInterval) * pollJitterFraction)
	if jitter <= 0 {
		return f.pollInterval
	}
	//nolint:gosec // G404: Non-cryptographic randomness is sufficient for polling jitter
	return f.pollInterval + time.Duration(rand.Int64N(2*jitter+1)-jitter)
}

// Start loads the persisted status, polls once and keeps polling until the
// context is cancelled or Stop is called. Blocks until then.
func (f *DefaultFramework) Start(ctx context.Context) error {
	f.lifecycleMu.Lock()
	if f.done != nil {
		f.lifecycleMu.Unlock()
		return fmt.Errorf("catalog framework already started")
	}
	runCtx, cancel := context.WithCancel(ctx)
	f.cancelFunc = cancel
	f.done = make(chan struct{})
	done := f.done
	f.lifecycleMu.Unlock()

	defer func() {
		f.mu.Lock()
		f.stopped = true
		f.ready = false
		f.mu.Unlock()
		close(done)
		slog.Info("Catalog framework shutting down")
	}()

	slog.Info("Starting catalog framework",
		"poll_interval", f.pollInterval,
		"check_timeout", f.checkTimeout,
		"max_attempts", f.maxAttempts,
		"max_concurrent_checks", f.maxConcurrent)

	f.loadPersistedStatus(runCtx)
	f.poll(runCtx)

	ticker := time.NewTicker(f.nextPollInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			f.poll(runCtx)

			// Recalculate interval with new jitter for next iteration
			ticker.Reset(f.nextPollInterval())
		case <-runCtx.Done():
			slog.Info("Catalog framework stopping")
			return nil
		}
	}
}

// Stop cancels the poll loop and waits for it to exit.
// Source-info requests fail with ErrSourceUnavailable afterwards.
func (f *DefaultFramework) Stop() error {
	f.mu.Lock()
	f.stopped = true
	f.ready = false
	f.mu.Unlock()

	f.lifecycleMu.Lock()
	cancel, done := f.cancelFunc, f.done
	f.lifecycleMu.Unlock()

	if cancel != nil {
		slog.Info("Stopping catalog framework")
		cancel()
		<-done
	}
	return nil
}

// Ready reports whether a poll has completed and the framework is not stopped
func (f *DefaultFramework) Ready() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.ready && !f.stopped
}

// Refresh polls all sources immediately
func (f *DefaultFramework) Refresh(ctx context.Context) error {
	f.mu.RLock()
	stopped := f.stopped
	f.mu.RUnlock()
	if stopped {
		return fmt.Errorf("%w: catalog framework is stopped", ErrSourceUnavailable)
	}

	f.poll(ctx)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("refresh interrupted: %w", err)
	}
	return nil
}

// SourceInfo answers a source-info request from the last completed poll
func (f *DefaultFramework) SourceInfo(_ context.Context, req *SourceInfoRequest) (*SourceInfoResponse, error) {
	if req == nil {
		req = &SourceInfoRequest{}
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.stopped {
		return nil, fmt.Errorf("%w: catalog framework is stopped", ErrSourceUnavailable)
	}
	if !f.ready {
		return nil, fmt.Errorf("%w: catalog framework has not completed a poll", ErrSourceUnavailable)
	}

	resp := &SourceInfoResponse{}
	switch {
	case len(req.SourceIDs) > 0:
		var missing []string
		seen := make(map[string]bool, len(req.SourceIDs))
		for _, id := range req.SourceIDs {
			if seen[id] {
				continue
			}
			seen[id] = true

			if id == f.localID {
				resp.Descriptors = append(resp.Descriptors, f.localDescriptor())
				continue
			}
			st, ok := f.statuses[id]
			if !ok {
				missing = append(missing, id)
				continue
			}
			resp.Descriptors = append(resp.Descriptors, descriptorFromStatus(id, st))
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("%w: unknown sources %s", ErrSourceUnavailable, strings.Join(missing, ", "))
		}

	case req.Enterprise:
		resp.Descriptors = append(resp.Descriptors, f.localDescriptor())
		for _, id := range slices.Sorted(maps.Keys(f.statuses)) {
			resp.Descriptors = append(resp.Descriptors, descriptorFromStatus(id, f.statuses[id]))
		}

	default:
		resp.Descriptors = append(resp.Descriptors, f.localDescriptor())
	}

	return resp, nil
}

func (f *DefaultFramework) localDescriptor() SourceDescriptor {
	return SourceDescriptor{
		SourceID:  f.localID,
		Title:     localSourceTitle,
		Version:   versions.Version,
		Type:      LocalSourceType,
		Available: true,
	}
}

func descriptorFromStatus(id string, st *status.SourceStatus) SourceDescriptor {
	return SourceDescriptor{
		SourceID:    id,
		Title:       st.Title,
		Version:     st.Version,
		Type:        st.Type,
		Available:   st.IsAvailable(),
		LastChecked: st.LastChecked,
		Message:     st.Message,
	}
}

// loadPersistedStatus seeds the failure history from disk. The loaded entries
// are not served until the first poll completes. When a refresh has already
// published a poll, the loaded history is discarded and the entries of
// sources that poll did not see are deleted.
func (f *DefaultFramework) loadPersistedStatus(ctx context.Context) {
	if f.persistence == nil {
		return
	}

	f.pollMu.Lock()
	defer f.pollMu.Unlock()

	loaded, err := f.persistence.LoadAllStatus(ctx)
	if err != nil {
		slog.Warn("Failed to load persisted source status", "error", err)
		return
	}

	var stale []string
	f.mu.Lock()
	if f.ready {
		for id := range loaded {
			if _, ok := f.statuses[id]; !ok {
				stale = append(stale, id)
			}
		}
	} else {
		maps.Copy(f.statuses, loaded)
	}
	f.mu.Unlock()

	for _, id := range stale {
		slog.Info("Dropping status of unregistered source", "source", id)
		if err := f.persistence.DeleteStatus(ctx, id); err != nil {
			slog.Warn("Failed to delete persisted source status", "source", id, "error", err)
		}
	}

	slog.Info("Loaded persisted source status", "count", len(loaded), "dropped", len(stale))
}

// target is a registered source selected for an availability check
type target struct {
	id          string
	source      sources.FederatedSource
	description sources.Description
}

type checkResult struct {
	target target
	err    error
}

// targets returns the registered federated sources, one per source id.
// When two services report the same id the one registered first wins.
func (f *DefaultFramework) targets() ([]target, error) {
	refs, err := f.lookup.AllServiceReferences(sources.FederatedSourceInterface, "")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(refs))
	targets := make([]target, 0, len(refs))
	for _, ref := range refs {
		svc := f.lookup.Service(ref)
		src, ok := svc.(sources.FederatedSource)
		if !ok || src == nil {
			continue
		}

		id := src.ID()
		if id == "" || seen[id] {
			slog.Debug("Skipping federated source", "service_id", ref.ID, "source", id)
			continue
		}
		seen[id] = true

		desc := sources.Description{Type: ref.Property(sources.PropSourceType)}
		if d, ok := svc.(sources.Describer); ok {
			desc = d.Describe()
		}
		targets = append(targets, target{id: id, source: src, description: desc})
	}
	return targets, nil
}

// poll checks every registered source and publishes the results
func (f *DefaultFramework) poll(ctx context.Context) {
	f.pollMu.Lock()
	defer f.pollMu.Unlock()

	ctx, span := otel.StartSpan(ctx, f.tracer, "catalog.poll")
	defer span.End()

	targets, err := f.targets()
	if err != nil {
		otel.RecordError(span, err)
		slog.Error("Failed to enumerate federated sources", "error", err)
		return
	}
	span.SetAttributes(otel.AttrResultCount.Int(len(targets)))

	results := make([]checkResult, len(targets))
	var g errgroup.Group
	g.SetLimit(f.maxConcurrent)
	for i, t := range targets {
		g.Go(func() error {
			results[i] = f.check(ctx, t)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		slog.Debug("Poll interrupted, discarding results", "error", err)
		return
	}

	f.apply(ctx, results)
}

// check runs the availability check of a single source with retries
func (f *DefaultFramework) check(ctx context.Context, t target) checkResult {
	start := time.Now()

	ctx, span := otel.StartSpan(ctx, f.tracer, "catalog.check",
		trace.WithAttributes(
			otel.AttrSourceID.String(t.id),
			otel.AttrSourceType.String(t.description.Type),
		),
	)
	defer span.End()

	operation := func() (struct{}, error) {
		checkCtx, cancel := context.WithTimeout(ctx, f.checkTimeout)
		defer cancel()
		return struct{}{}, checkAvailability(checkCtx, t.source)
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(f.newBackOff()),
		//nolint:gosec // maxAttempts is always positive
		backoff.WithMaxTries(uint(f.maxAttempts)),
	)

	f.metrics.RecordCheckDuration(ctx, t.description.Type, time.Since(start), err == nil)
	span.SetAttributes(otel.AttrAvailable.Bool(err == nil))
	otel.RecordError(span, err)
	return checkResult{target: t, err: err}
}

func checkAvailability(ctx context.Context, src sources.FederatedSource) error {
	if checker, ok := src.(sources.Checker); ok {
		return checker.Check(ctx)
	}
	if !src.IsAvailable(ctx) {
		return errNotAvailable
	}
	return nil
}

// apply replaces the published status with the poll results, persists them
// and drops the status of sources that are no longer registered
func (f *DefaultFramework) apply(ctx context.Context, results []checkResult) {
	now := f.now()

	f.mu.RLock()
	previous := f.statuses
	f.mu.RUnlock()

	next := make(map[string]*status.SourceStatus, len(results))
	for _, r := range results {
		st := &status.SourceStatus{}
		if prev, ok := previous[r.target.id]; ok {
			copied := *prev
			st = &copied
		}
		prevPhase := st.Phase

		st.RecordCheck(now, r.err)
		st.Type = r.target.description.Type
		st.Title = r.target.description.Title
		st.Version = r.target.description.Version
		next[r.target.id] = st

		if prevPhase != st.Phase {
			slog.Info("Source availability changed",
				"source", r.target.id,
				"type", st.Type,
				"previous_phase", prevPhase,
				"phase", st.Phase,
				"message", st.Message)
		}
	}

	f.mu.Lock()
	if f.stopped {
		f.mu.Unlock()
		return
	}
	f.statuses = next
	f.ready = true
	f.mu.Unlock()

	for id, st := range next {
		f.metrics.RecordAvailability(ctx, id, st.Type, st.IsAvailable())
		if f.persistence == nil {
			continue
		}
		if err := f.persistence.SaveStatus(ctx, id, st); err != nil {
			slog.Warn("Failed to persist source status", "source", id, "error", err)
		}
	}

	for id := range previous {
		if _, ok := next[id]; ok {
			continue
		}
		slog.Info("Dropping status of unregistered source", "source", id)
		if f.persistence == nil {
			continue
		}
		if err := f.persistence.DeleteStatus(ctx, id); err != nil {
			slog.Warn("Failed to delete persisted source status", "source", id, "error", err)
		}
	}

	slog.Debug("Catalog poll completed", "sources", len(next))
}
