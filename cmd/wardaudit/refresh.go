package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"wardaudit/pkg/domain"
)

func refreshCommand() *cobra.Command {
	var ward string
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Re-evaluate every ward, or one ward, and persist the snapshots",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := commonRun()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			a, err := newApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.close()

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")

			if ward = strings.TrimSpace(ward); ward != "" {
				code, err := domain.ParseWardCode(ward)
				if err != nil {
					return err
				}
				entry, err := a.snapshots.RefreshWard(ctx, code)
				if err != nil {
					return err
				}
				return enc.Encode(entry.Snapshot)
			}

			summary, err := a.snapshots.RefreshAll(ctx)
			if err != nil {
				return err
			}
			return enc.Encode(summary)
		},
	}
	cmd.Flags().StringVar(&ward, "ward", "", "refresh a single ward code")
	return cmd
}
