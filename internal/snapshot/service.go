// Package snapshot owns the compliance snapshot cache: refreshing wards from
// their facts, serving reads without blocking on refreshes, and persisting
// snapshots so a restart starts warm.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"wardaudit/internal/compliance"
	"wardaudit/internal/facts"
	"wardaudit/internal/snapshot/metrics"
	"wardaudit/internal/wardlock"
	"wardaudit/pkg/domain"
	dErrors "wardaudit/pkg/domain-errors"
	"wardaudit/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

// WardLister enumerates every ward to refresh.
type WardLister interface {
	WardCodes(ctx context.Context) ([]domain.WardCode, error)
}

// FactGatherer assembles a ward's fact bundle.
type FactGatherer interface {
	Gather(ctx context.Context, code domain.WardCode, asOf time.Time) (*facts.Bundle, error)
}

// ApprovalSource returns a ward's approval, or nil when it has none.
type ApprovalSource interface {
	ApprovalFor(ctx context.Context, code domain.WardCode) (*compliance.Approval, error)
}

// Store persists snapshots for warm starts.
type Store interface {
	Save(ctx context.Context, snap *compliance.Snapshot) error
	LoadAll(ctx context.Context) ([]*compliance.Snapshot, error)
}

const (
	defaultConcurrency = 8
	defaultWardTimeout = 30 * time.Second
)

// Service refreshes and serves ward snapshots.
type Service struct {
	wards     WardLister
	gatherer  FactGatherer
	approvals ApprovalSource
	store     Store
	locker    wardlock.Locker
	policy    compliance.Policy

	cache  *Cache
	flight singleflight.Group
	ready  atomic.Bool

	concurrency int
	wardTimeout time.Duration
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithConcurrency bounds how many wards RefreshAll evaluates at once.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithWardTimeout bounds a single ward refresh.
func WithWardTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.wardTimeout = d
		}
	}
}

func WithLocker(l wardlock.Locker) Option {
	return func(s *Service) {
		s.locker = l
	}
}

func New(
	wards WardLister,
	gatherer FactGatherer,
	approvals ApprovalSource,
	store Store,
	policy compliance.Policy,
	opts ...Option,
) *Service {
	s := &Service{
		wards:       wards,
		gatherer:    gatherer,
		approvals:   approvals,
		store:       store,
		locker:      wardlock.NewSharded(),
		policy:      policy,
		cache:       NewCache(),
		concurrency: defaultConcurrency,
		wardTimeout: defaultWardTimeout,
		logger:      slog.Default(),
		tracer:      otel.Tracer("wardaudit/snapshot"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Locker exposes the per-ward lock so approvals serialize with refreshes.
func (s *Service) Locker() wardlock.Locker {
	return s.locker
}

// Ready reports whether the cache holds real data: snapshots were loaded from
// durable storage or a refresh cycle succeeded.
func (s *Service) Ready() bool {
	return s.ready.Load()
}

// Warm loads persisted snapshots into the cache.
func (s *Service) Warm(ctx context.Context) (int, error) {
	snaps, err := s.store.LoadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("load persisted snapshots: %w", err)
	}
	for _, snap := range snaps {
		s.cache.Put(snap)
	}
	if len(snaps) > 0 {
		s.ready.Store(true)
	}
	s.observeCacheSize()
	s.logger.InfoContext(ctx, "snapshot cache warmed", "wards", len(snaps))
	return len(snaps), nil
}

// WardFailure describes one ward that could not be refreshed.
type WardFailure struct {
	WardCode domain.WardCode `json:"ward_code"`
	Code     string          `json:"error"`
	Message  string          `json:"error_description,omitempty"`
}

// RefreshSummary reports the outcome of a refresh run.
type RefreshSummary struct {
	AsOf      time.Time     `json:"as_of"`
	Total     int           `json:"total_wards"`
	Refreshed int           `json:"refreshed"`
	Failed    int           `json:"failed"`
	Failures  []WardFailure `json:"failures"`
	Duration  time.Duration `json:"-"`
}

// RefreshAll recomputes every ward as of requestcontext.Now(ctx), evaluating
// up to the configured concurrency at once and swapping each ward's slot as it
// completes. Per-ward failures are logged and counted and leave the previous
// snapshot in place. Cancelling ctx stops the cycle; wards already swapped
// keep their new snapshot.
func (s *Service) RefreshAll(ctx context.Context) (*RefreshSummary, error) {
	start := time.Now()
	asOf := requestcontext.Now(ctx).UTC()
	ctx = requestcontext.WithTime(ctx, asOf)

	ctx, span := s.tracer.Start(ctx, "snapshot.RefreshAll")
	defer span.End()

	wardCodes, err := s.wards.WardCodes(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list wards failed")
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "geographic index unavailable")
	}
	span.SetAttributes(attribute.Int("wards", len(wardCodes)))

	summary := &RefreshSummary{AsOf: asOf, Total: len(wardCodes), Failures: []WardFailure{}}
	var mu sync.Mutex

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.concurrency)
	for _, code := range wardCodes {
		if egCtx.Err() != nil {
			break
		}
		eg.Go(func() error {
			wardCtx, cancel := context.WithTimeout(egCtx, s.wardTimeout)
			defer cancel()

			_, err := s.RefreshWard(wardCtx, code)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if egCtx.Err() != nil {
					// Cycle cancelled: the ward's result is discarded, not failed.
					return nil
				}
				summary.Failed++
				summary.Failures = append(summary.Failures, failureOf(code, err))
				return nil
			}
			summary.Refreshed++
			return nil
		})
	}
	_ = eg.Wait()
	summary.Duration = time.Since(start)

	if s.metrics != nil {
		s.metrics.ObserveCycle(start)
	}
	if err := ctx.Err(); err != nil {
		s.logger.WarnContext(ctx, "refresh cycle cancelled",
			"refreshed", summary.Refreshed,
			"total_wards", summary.Total,
		)
		return summary, dErrors.Wrap(err, dErrors.CodeTimeout, "refresh cancelled")
	}
	if summary.Refreshed > 0 || summary.Total == 0 {
		s.ready.Store(true)
	}

	s.logger.InfoContext(ctx, "refresh cycle complete",
		"total_wards", summary.Total,
		"refreshed", summary.Refreshed,
		"failed", summary.Failed,
		"duration_ms", summary.Duration.Milliseconds(),
	)
	return summary, nil
}

// RefreshWard recomputes one ward under its per-ward lock.
func (s *Service) RefreshWard(ctx context.Context, code domain.WardCode) (*Entry, error) {
	unlock, err := s.locker.Lock(ctx, code)
	if err != nil {
		return nil, err
	}
	defer unlock()
	return s.RefreshWardLocked(ctx, code)
}

// RefreshWardLocked recomputes one ward. The caller must hold the ward's lock.
func (s *Service) RefreshWardLocked(ctx context.Context, code domain.WardCode) (*Entry, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "snapshot.RefreshWard", trace.WithAttributes(
		attribute.String("ward_code", code.String()),
	))
	defer span.End()

	entry, err := s.refresh(ctx, code)
	if s.metrics != nil {
		s.metrics.ObserveWardRefresh(start)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ward refresh failed")
		if s.metrics != nil {
			s.metrics.IncRefreshFailure(errorCode(err))
		}
		s.logger.WarnContext(ctx, "ward refresh failed",
			"ward_code", code,
			"error", err,
		)
		return nil, err
	}
	span.SetAttributes(
		attribute.Bool("all_criteria_passed", entry.Snapshot.AllCriteriaPassed),
		attribute.Bool("is_compliant", entry.Snapshot.IsCompliant),
	)
	return entry, nil
}

func (s *Service) refresh(ctx context.Context, code domain.WardCode) (*Entry, error) {
	asOf := requestcontext.Now(ctx).UTC()

	bundle, err := s.gatherer.Gather(ctx, code, asOf)
	if err != nil {
		return nil, err
	}
	approval, err := s.approvals.ApprovalFor(ctx, code)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "approval records unavailable")
	}

	snap := compliance.BuildSnapshot(bundle, approval, s.policy, asOf)

	// A cancelled refresh must not overwrite the last good snapshot.
	if err := ctx.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "refresh cancelled")
	}

	if err := s.store.Save(ctx, snap); err != nil {
		if s.metrics != nil {
			s.metrics.IncPersistFailure()
		}
		s.logger.ErrorContext(ctx, "failed to persist snapshot",
			"ward_code", code,
			"error", err,
		)
	}

	entry := s.cache.Put(snap)
	s.observeCacheSize()
	return entry, nil
}

// Get returns the ward's cached snapshot. A miss refreshes synchronously,
// sharing one refresh among concurrent callers. When maxAge is positive and
// the cached snapshot is older, Get refreshes first and falls back to the
// cached snapshot if that refresh fails.
func (s *Service) Get(ctx context.Context, code domain.WardCode, maxAge time.Duration) (*Entry, error) {
	if e, ok := s.cache.Get(code); ok {
		if maxAge <= 0 || requestcontext.Now(ctx).Sub(e.Snapshot.ComputedAt) <= maxAge {
			s.countRead("hit")
			return e, nil
		}
		s.countRead("stale")
		fresh, err := s.refreshShared(ctx, code)
		if err != nil {
			s.logger.WarnContext(ctx, "serving stale snapshot after failed refresh",
				"ward_code", code,
				"computed_at", e.Snapshot.ComputedAt,
				"error", err,
			)
			return e, nil
		}
		return fresh, nil
	}

	s.countRead("miss")
	fresh, err := s.refreshShared(ctx, code)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnknownWard) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeSnapshotUnavailable,
			"no snapshot available for ward "+code.String())
	}
	return fresh, nil
}

// refreshShared runs at most one refresh per ward for concurrent readers. The
// shared refresh is detached from any single caller's cancellation.
func (s *Service) refreshShared(ctx context.Context, code domain.WardCode) (*Entry, error) {
	ch := s.flight.DoChan(code.String(), func() (any, error) {
		sharedCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.wardTimeout)
		defer cancel()
		return s.RefreshWard(sharedCtx, code)
	})
	select {
	case <-ctx.Done():
		return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "request cancelled")
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Entry), nil
	}
}

// Cached returns the ward's cached snapshot without refreshing.
func (s *Service) Cached(code domain.WardCode) (*compliance.Snapshot, bool) {
	e, ok := s.cache.Get(code)
	if !ok {
		return nil, false
	}
	return e.Snapshot, true
}

// Snapshots returns every cached snapshot ordered by ward code.
func (s *Service) Snapshots() []*compliance.Snapshot {
	return s.cache.Snapshots()
}

func (s *Service) countRead(outcome string) {
	if s.metrics != nil {
		s.metrics.IncCacheRead(outcome)
	}
}

func (s *Service) observeCacheSize() {
	if s.metrics != nil {
		s.metrics.SetCachedWards(s.cache.Len())
	}
}

func failureOf(code domain.WardCode, err error) WardFailure {
	f := WardFailure{WardCode: code, Code: errorCode(err)}
	if de, ok := dErrors.As(err); ok {
		f.Message = de.Message
	}
	return f
}

func errorCode(err error) string {
	if de, ok := dErrors.As(err); ok {
		return string(de.Code)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return string(dErrors.CodeTimeout)
	}
	return string(dErrors.CodeInternal)
}
