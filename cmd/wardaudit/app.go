package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"wardaudit/internal/approval"
	approvalmetrics "wardaudit/internal/approval/metrics"
	approvalstore "wardaudit/internal/approval/store"
	"wardaudit/internal/compliance"
	"wardaudit/internal/facts"
	factstore "wardaudit/internal/facts/store"
	geostore "wardaudit/internal/geography/store"
	"wardaudit/internal/platform/config"
	"wardaudit/internal/platform/metrics"
	"wardaudit/internal/platform/migrate"
	"wardaudit/internal/platform/postgres"
	redisclient "wardaudit/internal/platform/redis"
	"wardaudit/internal/snapshot"
	snapmetrics "wardaudit/internal/snapshot/metrics"
	snapstore "wardaudit/internal/snapshot/store"
	"wardaudit/internal/wardlock"
	"wardaudit/pkg/platform/audit"
	"wardaudit/pkg/platform/audit/publisher"
	auditmemory "wardaudit/pkg/platform/audit/store/memory"
	auditpostgres "wardaudit/pkg/platform/audit/store/postgres"
	"wardaudit/pkg/platform/audit/worker"
)

// geographyStore is the read surface every geography backend offers.
type geographyStore interface {
	facts.WardIndex
	snapshot.WardLister
	snapshot.Geography
}

// factStore is the read and write surface every fact backend offers.
type factStore interface {
	facts.MembershipProvider
	facts.GrowthProvider
	facts.MeetingProvider
	facts.DelegateProvider
	facts.MeetingStore
}

// outboxStore backs the audit publisher and the relay worker.
type outboxStore interface {
	audit.Store
	worker.Outbox
}

// app holds the long-lived dependencies shared by the commands.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	registry *prometheus.Registry

	db    *sql.DB
	redis *redisclient.Client

	outbox    outboxStore
	publisher *publisher.Publisher
	snapshots *snapshot.Service
	rollups   *snapshot.Rollups
	approvals *approval.Service
	meetings  *facts.MeetingService
}

// newApp opens the configured backends and wires the services. Postgres is used
// when DATABASE_URL is set, in-memory stores otherwise.
func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (_ *app, err error) {
	a := &app{cfg: cfg, logger: logger, registry: metrics.NewRegistry()}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	policy, err := compliance.LoadPolicyFile(cfg.PolicyFile)
	if err != nil {
		return nil, err
	}

	a.db, err = postgres.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if a.db != nil && cfg.Database.MigrateOnStart {
		applied, err := migrate.Apply(ctx, a.db)
		if err != nil {
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		logger.InfoContext(ctx, "migrations applied", "count", len(applied))
	}

	a.redis, err = redisclient.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}

	var (
		geo       geographyStore
		fs        factStore
		snapshots snapshot.Store
		records   approval.Store
		tx        approval.TxRunner
	)
	if a.db != nil {
		geo = geostore.NewPostgres(a.db)
		fs = factstore.NewPostgres(a.db)
		snapshots = snapstore.NewPostgres(a.db)
		records = approvalstore.NewPostgres(a.db)
		tx = approvalstore.NewPostgresTx(a.db)
		a.outbox = auditpostgres.New(a.db)
		if cfg.SeedDemo {
			logger.WarnContext(ctx, "demo seeding only applies to in-memory stores, ignoring")
		}
	} else {
		memGeo := geostore.NewInMemory()
		memFacts := factstore.NewInMemory()
		if cfg.SeedDemo {
			if err := seedDemo(ctx, memGeo, memFacts); err != nil {
				return nil, err
			}
			logger.InfoContext(ctx, "demo wards seeded")
		}
		geo = memGeo
		fs = memFacts
		snapshots = snapstore.NewInMemory()
		records = approvalstore.NewInMemory()
		tx = approvalstore.NewInMemoryTx()
		a.outbox = auditmemory.NewInMemoryStore()
	}

	var locker wardlock.Locker = wardlock.NewSharded()
	if a.redis != nil {
		locker = wardlock.NewRedisLocker(a.redis.Client, cfg.Redis.LockTTL, wardlock.WithLogger(logger))
	}

	a.publisher = publisher.New(a.outbox,
		publisher.WithLogger(logger),
		publisher.WithMetrics(publisher.NewMetrics(a.registry)),
	)

	gatherer := facts.NewGatherer(geo, fs, fs, fs, fs,
		facts.WithLogger(logger),
		facts.WithWindows(policy.Windows()),
	)
	a.snapshots = snapshot.New(geo, gatherer, approval.NewLookup(records), snapshots, policy,
		snapshot.WithLogger(logger),
		snapshot.WithMetrics(snapmetrics.New(a.registry)),
		snapshot.WithConcurrency(cfg.Refresh.Concurrency),
		snapshot.WithWardTimeout(cfg.Refresh.WardTimeout),
		snapshot.WithLocker(locker),
	)
	a.rollups = snapshot.NewRollups(geo, a.snapshots)
	a.approvals = approval.New(records, tx, a.snapshots, a.publisher,
		approval.WithLogger(logger),
		approval.WithMetrics(approvalmetrics.New(a.registry)),
		approval.WithApproverRoles(cfg.Auth.ApproverRoles),
	)
	a.meetings = facts.NewMeetingService(geo, fs,
		facts.WithMeetingLogger(logger),
		facts.WithAuditPublisher(a.publisher),
	)
	return a, nil
}

func seedDemo(ctx context.Context, geo *geostore.InMemory, fs *factstore.InMemory) error {
	if err := geostore.SeedDemoGeography(geo); err != nil {
		return fmt.Errorf("seed demo geography: %w", err)
	}
	first, err := geo.Ward(ctx, geostore.DemoWardCode)
	if err != nil {
		return err
	}
	second, err := geo.Ward(ctx, geostore.DemoSecondWardCode)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for _, sc := range factstore.DemoWards(*first, *second) {
		factstore.SeedDemoWard(fs, sc, now)
	}
	return nil
}

// ready reports whether the process can serve traffic.
func (a *app) ready(ctx context.Context) error {
	if !a.snapshots.Ready() {
		return fmt.Errorf("snapshot cache not warmed")
	}
	if a.db != nil {
		if err := a.db.PingContext(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	}
	if a.redis != nil {
		if err := a.redis.Health(ctx); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

func (a *app) close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("close redis", "error", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("close postgres", "error", err)
		}
	}
}
