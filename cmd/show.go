// File: cmd/show.go
package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/secreport/internal/config"
	"github.com/xkilldash9x/secreport/internal/reporting"
	"github.com/xkilldash9x/secreport/internal/service"
)

// newShowCmd creates and configures the `show` command.
func newShowCmd(factory service.ComponentFactory) *cobra.Command {
	var format, output string

	showCmd := &cobra.Command{
		Use:   "show <report-id>",
		Short: "Render a previously stored report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(cmd.Context(), factory, func(ctx context.Context, _ config.Interface, _ *zap.Logger, c *service.Components) error {
				resp, err := c.Service.Lookup(ctx, args[0], format)
				if err != nil {
					return err
				}
				return writeOutput(output, resp.Body, cmd.OutOrStdout())
			})
		},
	}

	showCmd.Flags().StringVarP(&format, "format", "f", reporting.FormatJSON, "Output format ('json' or 'html')")
	showCmd.Flags().StringVarP(&output, "output", "o", "", "Output file path. If unset, the report is printed to stdout.")
	return showCmd
}
