package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"wardaudit/internal/platform/kafka/consumer"
	"wardaudit/internal/platform/postgres"
	auditconsumer "wardaudit/pkg/platform/audit/consumer"
	auditpostgres "wardaudit/pkg/platform/audit/store/postgres"
)

// auditConsumeCommand drains the audit topic into the queryable audit_events log.
func auditConsumeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "audit-consume",
		Short: "Consume relayed audit events into the audit log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := commonRun()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			db, err := postgres.Open(ctx, cfg.Database)
			if err != nil {
				return err
			}
			if db == nil {
				return errors.New("DATABASE_URL is not set")
			}
			defer db.Close()

			c, err := consumer.New(cfg.Kafka, logger)
			if err != nil {
				return err
			}
			defer c.Close()

			router := auditconsumer.NewRouter(logger)
			router.Register(cfg.Kafka.Topic, auditconsumer.NewAuditLogHandler(auditpostgres.New(db), logger))

			logger.InfoContext(ctx, "consuming audit events",
				"topic", cfg.Kafka.Topic,
				"group", cfg.Kafka.ConsumerGroup,
			)
			if err := c.Run(ctx, router); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}
