package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/lfnd"
	"github.com/vango-dev/lfnd/internal/config"
	"github.com/vango-dev/lfnd/internal/errors"
	"github.com/vango-dev/lfnd/pkg/manifest"
	"github.com/vango-dev/lfnd/pkg/server"
)

func serveCmd() *cobra.Command {
	var (
		configDir    string
		addr         string
		manifestPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a route manifest",
		Long: `Serve a route manifest over HTTP, with a WebSocket navigation
channel at /_lfnd/ws.

Settings come from lfnd.json in the config directory; flags override them.

Examples:
  lfnd serve --manifest routes.json
  lfnd serve --manifest s3://my-bucket/routes.json --addr :9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configDir)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if manifestPath != "" {
				cfg.Manifest = manifestPath
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, cmd, cfg)
		},
	}

	cmd.Flags().StringVarP(&configDir, "config", "c", ".", "Directory containing lfnd.json")
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from lfnd.json)")
	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "Manifest file or s3:// URL (default from lfnd.json)")

	return cmd
}

func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()}))
}

// appConfig maps lfnd.json onto the application configuration.
func appConfig(cfg *config.Config, logger *slog.Logger) lfnd.Config {
	srv := server.DefaultConfig()
	srv.Addr = cfg.Server.Addr
	srv.ShutdownTimeout = cfg.ShutdownTimeout()
	srv.MetricsPath = ""
	if cfg.Metrics.Enabled {
		srv.MetricsPath = cfg.Metrics.Path
	}

	return lfnd.Config{
		Server:                 srv,
		Logger:                 logger,
		AccessLog:              cfg.LogLevel() <= slog.LevelDebug,
		Metrics:                cfg.Metrics.Enabled,
		DisableMetricsEndpoint: !cfg.Metrics.Enabled,
		MetricsNamespace:       cfg.Metrics.Namespace,
		Tracing:                cfg.Tracing.Enabled,
		TracerName:             cfg.Tracing.TracerName,
	}
}

// manifestSource resolves the manifest location, building an S3 client only
// for s3:// locations.
func manifestSource(cfg *config.Config) (manifest.Source, error) {
	var client manifest.ObjectGetter
	if manifest.IsS3(cfg.Manifest) {
		client = manifest.NewS3Client(manifest.S3Options{
			Region:       cfg.S3.Region,
			Endpoint:     cfg.S3.Endpoint,
			UsePathStyle: cfg.S3.UsePathStyle,
		})
	}
	return manifest.SourceFor(cfg.Manifest, client)
}

func runServe(ctx context.Context, cmd *cobra.Command, cfg *config.Config) error {
	if cfg.Manifest == "" {
		return errors.New("L030").
			WithDetail("no manifest given").
			WithSuggestion("Pass --manifest or set \"manifest\" in lfnd.json.")
	}

	logger := newLogger(cfg)
	app := lfnd.New(appConfig(cfg, logger))

	src, err := manifestSource(cfg)
	if err != nil {
		return err
	}
	if err := app.LoadManifest(ctx, src); err != nil {
		return err
	}

	w := cmd.ErrOrStderr()
	success(w, "Serving %d routes from %s", len(app.Routes()), src)
	info(w, "Listening on %s", cfg.Server.Addr)

	if err := app.Run(ctx); err != nil {
		return errors.FromError(err, "L031")
	}
	return nil
}
