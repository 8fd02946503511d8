package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	jwttoken "wardaudit/internal/jwt_token"
	"wardaudit/internal/platform/config"
	"wardaudit/internal/platform/httpserver"
	"wardaudit/internal/platform/kafka/producer"
	"wardaudit/internal/platform/metrics"
	"wardaudit/internal/snapshot"
	"wardaudit/internal/wardaudit/handler"
	"wardaudit/pkg/platform/audit/worker"
	"wardaudit/pkg/platform/httputil"
)

// Replication factor -1 lets the broker apply its default.
const defaultReplicationFactor int16 = -1

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the refresh scheduler and the audit relay",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := commonRun()
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, logger)
		},
	}
}

func runServe(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	if _, err := a.snapshots.Warm(ctx); err != nil {
		return err
	}

	prod, err := producer.New(ctx, cfg.Kafka, logger)
	if err != nil {
		return err
	}
	if prod != nil {
		defer prod.Close()
		if err := prod.EnsureTopic(ctx, cfg.Kafka.Partitions, defaultReplicationFactor); err != nil {
			return err
		}
	} else {
		logger.InfoContext(ctx, "kafka brokers not configured, audit events stay in the outbox")
	}

	scheduler := snapshot.NewScheduler(a.snapshots, cfg.Refresh.Interval, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	jwtService := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)
	api := handler.New(a.snapshots, a.rollups, a.approvals, a.meetings,
		jwttoken.NewJWTServiceAdapter(jwtService),
		handler.WithLogger(logger),
		handler.WithMetrics(metrics.New(a.registry)),
		handler.WithAdminToken(cfg.Auth.AdminAPIToken),
		handler.WithRequestTimeout(cfg.Server.RequestTimeout),
		handler.WithAuditPublisher(a.publisher),
	)

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := a.ready(r.Context()); err != nil {
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": err.Error(),
			})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	r.Handle("/metrics", metrics.Handler(a.registry))
	api.Register(r)

	srv := httpserver.New(cfg.Server.Addr, r, cfg.Server.ReadHeaderTimeout)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.InfoContext(gctx, "starting wardaudit", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	if prod != nil {
		relay := worker.NewWorker(a.outbox, prod,
			worker.WithLogger(logger),
			worker.WithMetrics(worker.NewMetrics(a.registry)),
			worker.WithInterval(cfg.Kafka.RelayInterval),
			worker.WithBatchSize(cfg.Kafka.RelayBatchSize),
		)
		g.Go(func() error {
			if err := relay.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("wardaudit stopped")
	return nil
}
