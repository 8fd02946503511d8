package facts

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"wardaudit/internal/geography"
	"wardaudit/pkg/domain"
	dErrors "wardaudit/pkg/domain-errors"
	"wardaudit/pkg/platform/sentinel"
)

//go:generate mockgen -source=gatherer.go -destination=mocks/mocks.go -package=mocks

// WardIndex resolves ward codes in the geographic hierarchy.
type WardIndex interface {
	Ward(ctx context.Context, code domain.WardCode) (*geography.Ward, error)
}

// MembershipProvider reads active membership counts.
type MembershipProvider interface {
	MembershipFacts(ctx context.Context, ward *geography.Ward, asOf time.Time) (MembershipFacts, error)
}

// GrowthProvider reads active membership at the end of two consecutive periods.
type GrowthProvider interface {
	GrowthFacts(ctx context.Context, ward *geography.Ward, asOf time.Time, period time.Duration) (GrowthFacts, error)
}

// MeetingProvider reads meetings held in [from, to]. A zero from means unbounded.
type MeetingProvider interface {
	MeetingFacts(ctx context.Context, ward *geography.Ward, from, to time.Time) (MeetingFacts, error)
}

// DelegateProvider reads delegate assignments active at asOf.
type DelegateProvider interface {
	DelegateFacts(ctx context.Context, ward *geography.Ward, asOf time.Time) (DelegateFacts, error)
}

// Gatherer resolves a ward and fans its four fact reads out concurrently.
type Gatherer struct {
	index      WardIndex
	membership MembershipProvider
	growth     GrowthProvider
	meetings   MeetingProvider
	delegates  DelegateProvider
	windows    Windows
	logger     *slog.Logger
	tracer     trace.Tracer
}

// Option configures a Gatherer.
type Option func(*Gatherer)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gatherer) {
		g.logger = logger
	}
}

// WithWindows overrides the default fact windows.
func WithWindows(w Windows) Option {
	return func(g *Gatherer) {
		g.windows = w
	}
}

func NewGatherer(
	index WardIndex,
	membership MembershipProvider,
	growth GrowthProvider,
	meetings MeetingProvider,
	delegates DelegateProvider,
	opts ...Option,
) *Gatherer {
	g := &Gatherer{
		index:      index,
		membership: membership,
		growth:     growth,
		meetings:   meetings,
		delegates:  delegates,
		windows:    DefaultWindows(),
		logger:     slog.Default(),
		tracer:     otel.Tracer("wardaudit/facts"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Gather returns the fact bundle for a ward as of asOf. Unknown wards fail with
// CodeUnknownWard, whether the index or a provider reports them missing.
func (g *Gatherer) Gather(ctx context.Context, code domain.WardCode, asOf time.Time) (*Bundle, error) {
	ctx, span := g.tracer.Start(ctx, "facts.Gather", trace.WithAttributes(
		attribute.String("ward_code", code.String()),
	))
	defer span.End()

	ward, err := g.index.Ward(ctx, code)
	if err != nil {
		err = translateLookupError(err, code)
		span.RecordError(err)
		span.SetStatus(codes.Error, "ward lookup failed")
		return nil, err
	}

	bundle := &Bundle{Ward: *ward, AsOf: asOf}

	var meetingsFrom time.Time
	if g.windows.MeetingWindow > 0 {
		meetingsFrom = asOf.Add(-g.windows.MeetingWindow)
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		m, err := g.membership.MembershipFacts(egCtx, ward, asOf)
		if err != nil {
			return providerError("membership", err, code)
		}
		bundle.Membership = m
		return nil
	})
	eg.Go(func() error {
		gr, err := g.growth.GrowthFacts(egCtx, ward, asOf, g.windows.GrowthPeriod)
		if err != nil {
			return providerError("growth", err, code)
		}
		bundle.Growth = gr
		return nil
	})
	eg.Go(func() error {
		mt, err := g.meetings.MeetingFacts(egCtx, ward, meetingsFrom, asOf)
		if err != nil {
			return providerError("meetings", err, code)
		}
		bundle.Meetings = mt
		return nil
	})
	eg.Go(func() error {
		d, err := g.delegates.DelegateFacts(egCtx, ward, asOf)
		if err != nil {
			return providerError("delegates", err, code)
		}
		bundle.Delegates = d
		return nil
	})

	if err := eg.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fact gathering failed")
		g.logger.WarnContext(ctx, "fact gathering failed",
			"ward_code", code,
			"error", err,
		)
		return nil, err
	}
	return bundle, nil
}

func translateLookupError(err error, code domain.WardCode) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeUnknownWard, "ward "+code.String()+" does not exist")
	}
	return dErrors.Wrap(err, dErrors.CodeUnavailable, "geographic index unavailable")
}

func providerError(provider string, err error, code domain.WardCode) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeUnknownWard, provider+" facts report ward "+code.String()+" missing")
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return dErrors.Wrap(err, dErrors.CodeTimeout, provider+" facts cancelled")
	}
	return dErrors.Wrap(err, dErrors.CodeUnavailable, provider+" facts unavailable")
}
