package main

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vidshare/vidshare/internal/infrastructure/config"
	"github.com/vidshare/vidshare/pkg/logger"
)

const serviceName = "vidshare"

type commandContext struct {
	secretsFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(secretsFlag *string) *commandContext {
	return &commandContext{secretsFlag: secretsFlag}
}

func (c *commandContext) ensureConfig(ctx context.Context) (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.secretsFlag != nil {
			path = strings.TrimSpace(*c.secretsFlag)
		}
		c.config, c.configErr = config.Load(ctx, path)
	})
	return c.config, c.configErr
}

// logger initialises the process logger on first use. Server logs go to
// stdout; operator commands log to stderr so their output stays clean.
func (c *commandContext) logger(out io.Writer) zerolog.Logger {
	opts := logger.Options{Service: serviceName, Output: out}
	if c.config != nil {
		opts.Level = c.config.LogLevel
		opts.Format = c.config.LogFormat
	}
	return logger.Init(opts)
}

func newRootCommand() *cobra.Command {
	var secretsFlag string

	ctx := newCommandContext(&secretsFlag)

	rootCmd := &cobra.Command{
		Use:           serviceName,
		Short:         "Video upload and sharing service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := ctx.ensureConfig(cmd.Context())
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&secretsFlag, "secrets", config.DefaultSecretsFile, "Path to the secrets TOML file")

	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newAdminCommand(ctx))
	rootCmd.AddCommand(newReportCommand(ctx))

	return rootCmd
}
