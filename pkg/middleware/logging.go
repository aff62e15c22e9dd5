package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/vango-dev/lfnd/pkg/dispatch"
)

// Logging logs every resolution at info level. Not-found resolutions are
// logged at warn level.
func Logging(logger *slog.Logger) dispatch.Middleware {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next dispatch.ResolveFunc) dispatch.ResolveFunc {
		return func(ctx context.Context, path string) dispatch.Outcome {
			start := time.Now()
			out := next(ctx, path)

			level := slog.LevelInfo
			if !out.Matched() && out.Response.Status >= 400 {
				level = slog.LevelWarn
			}
			logger.LogAttrs(ctx, level, "dispatch",
				slog.String("path", path),
				slog.String("outcome", out.Kind.String()),
				slog.Int("status", out.Response.Status),
				slog.Duration("duration", time.Since(start)),
			)
			return out
		}
	}
}
