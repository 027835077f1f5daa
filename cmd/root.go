// File: cmd/root.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xkilldash9x/secreport/internal/config"
	"github.com/xkilldash9x/secreport/internal/observability"
	"github.com/xkilldash9x/secreport/internal/service"
)

type contextKey string

const configKey contextKey = "config"

// NewRootCommand builds the command tree wired to the production component factory.
func NewRootCommand() *cobra.Command {
	return newRootCmd(service.NewComponentFactory())
}

func newRootCmd(factory service.ComponentFactory) *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:           "secreport",
		Short:         "secreport builds the weekly security and performance report.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			config.SetDefaults(v)

			if err := initializeConfig(v, cfgFile); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}

			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				return fmt.Errorf("failed to load or validate config: %w", err)
			}

			// Logs go to stderr so a report printed to stdout stays parseable.
			observability.Initialize(cfg.Logger(), zapcore.Lock(os.Stderr))
			observability.GetLogger().Debug("Starting secreport", zap.String("version", Version))

			cmd.SetContext(context.WithValue(cmd.Context(), configKey, cfg))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	rootCmd.AddCommand(
		newGenerateCmd(factory),
		newServeCmd(factory),
		newShowCmd(factory),
		newSnapshotCmd(factory),
		newMigrateCmd(factory),
	)
	return rootCmd
}

// Execute runs the root command under ctx.
func Execute(ctx context.Context) error {
	defer observability.Sync()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			observability.GetLogger().Error("Command execution failed", zap.Error(err))
		}
		return err
	}
	return nil
}

// initializeConfig reads the config file and SECREPORT_* environment variables.
func initializeConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("SECREPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; proceed with defaults/env vars
	}
	return nil
}

func getConfigFromContext(ctx context.Context) (config.Interface, error) {
	cfg, ok := ctx.Value(configKey).(config.Interface)
	if !ok || cfg == nil {
		return nil, errors.New("configuration not found in command context")
	}
	return cfg, nil
}

// withComponents creates the components for one command and shuts them down afterwards.
func withComponents(ctx context.Context, factory service.ComponentFactory, fn func(context.Context, config.Interface, *zap.Logger, *service.Components) error) error {
	cfg, err := getConfigFromContext(ctx)
	if err != nil {
		return err
	}
	logger := observability.GetLogger()

	components, err := factory.Create(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize components: %w", err)
	}
	defer components.Shutdown()

	return fn(ctx, cfg, logger, components)
}
