package chat_http

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"rag-chatbot/internal/infra/logger"
)

// RequestLogger emits one structured log line per request, enriched
// with whatever business context the handlers put on the request
// context.
func RequestLogger(cl *logger.ContextLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)

			log := cl.WithContext(ctx.Request().Context())
			log.Info("http_request",
				slog.String("method", ctx.Request().Method),
				slog.String("path", ctx.Path()),
				slog.Int("status", ctx.Response().Status),
				slog.Duration("elapsed", time.Since(start)),
			)
			return err
		}
	}
}
