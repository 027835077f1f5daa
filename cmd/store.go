// File: cmd/store.go
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/secreport/internal/config"
	"github.com/xkilldash9x/secreport/internal/service"
)

// newSnapshotCmd creates the `snapshot` command. Storage growth compares the
// current size against the latest snapshot taken before the window start, so
// this is meant to run on a schedule.
func newSnapshotCmd(factory service.ComponentFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Record the current database size for storage growth tracking",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(cmd.Context(), factory, func(ctx context.Context, _ config.Interface, logger *zap.Logger, c *service.Components) error {
				size, err := c.Store.RecordStorageSnapshot(ctx, time.Now().UTC())
				if err != nil {
					return err
				}
				logger.Info("Storage snapshot recorded", zap.Int64("bytes", size))
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Recorded storage snapshot: %d bytes\n", size)
				return err
			})
		},
	}
}

// newMigrateCmd creates the `migrate` command.
func newMigrateCmd(factory service.ComponentFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the audit, event and report tables if they do not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(cmd.Context(), factory, func(ctx context.Context, _ config.Interface, _ *zap.Logger, c *service.Components) error {
				return c.Store.EnsureSchema(ctx)
			})
		},
	}
}
