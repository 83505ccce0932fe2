package tagger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// LogOperations returns middleware that logs every repository operation.
// Successful calls and not-found outcomes go to debug, store failures to error.
func LogOperations(logger *zap.Logger) MiddlewareFunc {
	return func(ctx context.Context, op *OpInfo, next func(context.Context) error) error {
		start := time.Now()
		err := next(ctx)

		fields := []zap.Field{
			zap.String("op", string(op.Operation)),
			zap.String("collection", op.Collection),
			zap.String("model", op.ModelName),
			zap.Duration("took", time.Since(start)),
		}
		if op.ID != "" {
			fields = append(fields, zap.String("id", op.ID))
		}

		switch {
		case err == nil:
			logger.Debug("store operation", fields...)
		case errors.Is(err, ErrNotFound):
			logger.Debug("store operation: not found", fields...)
		default:
			logger.Error("store operation failed", append(fields, zap.Error(err))...)
		}
		return err
	}
}
