package tracing

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// InjectTraceID attaches a logger derived from the global one carrying a fresh traceId.
func InjectTraceID(ctx context.Context) context.Context {
	id := uuid.New().String()
	logger := log.With().Str("traceId", id).Logger()
	return logger.WithContext(ctx)
}

// WithRequest attaches the operation and the calling principal to the context logger.
func WithRequest(ctx context.Context, operation, principal string) context.Context {
	logger := log.Ctx(ctx).With().
		Str("operation", operation).
		Str("principal", principal).
		Logger()
	return logger.WithContext(ctx)
}
