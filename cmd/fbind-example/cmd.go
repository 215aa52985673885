package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/swaggest/fbind"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fbind-example",
		Short: "Example server with typed request parameters",
		Long: `fbind-example serves endpoints that bind query, form, multipart file
and part parameters into typed use case inputs.`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.AddCommand(newServeCommand())

	return rootCmd
}

func newServeCommand() *cobra.Command {
	cfg, cfgErr := loadConfig()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgErr != nil {
				return cfgErr
			}

			return serve(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.Listen, "listen", cfg.Listen, "server address")
	flags.BoolVar(&cfg.SimpleTypes, "simple-types", cfg.SimpleTypes, "bind fields without param tag")
	flags.BoolVar(&cfg.TrimEmpty, "trim-empty", cfg.TrimEmpty, "trim string values and treat empty as absent")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	flags.DurationVar(&cfg.RequestTimeout, "request-timeout", cfg.RequestTimeout, "request processing timeout")

	return cmd
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = lvl

	return zc.Build()
}

func serve(ctx context.Context, cfg Config) error {
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	defer func() {
		_ = logger.Sync()
	}()

	if ctx == nil {
		ctx = context.Background()
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := fasthttp.Server{
		Name:    "fbind-example",
		Handler: fbind.RequestHandler(newRouter(cfg, logger)),

		// Parts are read from raw body.
		DisablePreParseMultipartForm: true,
	}

	errs := make(chan error, 1)

	go func() {
		logger.Info("starting server", zap.String("listen", cfg.Listen))
		errs <- srv.ListenAndServe(cfg.Listen)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		logger.Info("shutting down server")

		return srv.Shutdown()
	}
}
