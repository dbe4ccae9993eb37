package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Init configures the global slog logger.
// In production (ENVIRONMENT=production) it uses JSON output for log aggregation.
// Otherwise it uses the human-readable text handler.
func Init() {
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))

	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	slog.SetDefault(slog.New(handler))
}

// WithRequest returns a logger with chat request context attached.
// Use this for all logging within a single chat request.
func WithRequest(requestID, intentKind, model string) *slog.Logger {
	return slog.With(
		"request_id", requestID,
		"intent", intentKind,
		"model", model,
	)
}

// WithSource returns a logger scoped to one retrieval source within a request.
func WithSource(logger *slog.Logger, sourceURL string, slot int) *slog.Logger {
	return logger.With(
		"source_url", sourceURL,
		"slot", slot,
	)
}
