// File: cmd/generate.go
package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/secreport/internal/config"
	"github.com/xkilldash9x/secreport/internal/reporting"
	"github.com/xkilldash9x/secreport/internal/service"
)

type generateOptions struct {
	format      string
	output      string
	emailReport bool
	noPublish   bool
}

// newGenerateCmd creates and configures the `generate` command.
func newGenerateCmd(factory service.ComponentFactory) *cobra.Command {
	var opts generateOptions

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the weekly report for the trailing window",
		Long: `Collects security, compliance, performance and threat metrics for the
trailing window, persists the report, notifies administrators and writes the
rendered report to stdout or --output.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(cmd.Context(), factory, func(ctx context.Context, _ config.Interface, logger *zap.Logger, c *service.Components) error {
				return runGenerate(ctx, logger, c.Service, opts, cmd.OutOrStdout())
			})
		},
	}

	generateCmd.Flags().StringVarP(&opts.format, "format", "f", reporting.FormatJSON, "Output format ('json' or 'html')")
	generateCmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file path. If unset, the report is printed to stdout.")
	generateCmd.Flags().BoolVar(&opts.emailReport, "email-report", false, "Request email delivery (accepted but not supported)")
	generateCmd.Flags().BoolVar(&opts.noPublish, "no-publish", false, "Render the report without persisting it or notifying administrators")
	return generateCmd
}

// runGenerate contains the core, testable logic of the generate command.
func runGenerate(ctx context.Context, logger *zap.Logger, svc *service.Service, opts generateOptions, stdout io.Writer) error {
	resp, err := svc.Run(ctx, service.Request{
		Format:      opts.format,
		EmailReport: opts.emailReport,
		SkipPublish: opts.noPublish,
	})
	if err != nil {
		return err
	}

	if err := writeOutput(opts.output, resp.Body, stdout); err != nil {
		return err
	}

	logger.Info("Weekly report generated",
		zap.String("report_id", resp.Report.ID),
		zap.String("status", string(resp.Report.Status)),
		zap.Bool("persisted", resp.Publish.Persisted),
		zap.Int("delivered", resp.Publish.Delivered),
		zap.Int("failed", resp.Publish.Failed))
	return nil
}

func writeOutput(path string, body []byte, stdout io.Writer) error {
	if path == "" {
		_, err := fmt.Fprintln(stdout, string(body))
		return err
	}

	w, err := reporting.OpenOutput(path)
	if err != nil {
		return err
	}
	if _, err := w.Write(body); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return w.Close()
}
