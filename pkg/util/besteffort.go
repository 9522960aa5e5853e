package util

import (
	"context"
	"fmt"
	"log/slog"
)

// BestEffort runs fn and logs any failure, including a panic, under op. It never
// reports the failure to the caller.
func BestEffort(ctx context.Context, logger *slog.Logger, op string, fn func(ctx context.Context) error) {
	if err := run(ctx, fn); err != nil {
		logger.ErrorContext(ctx, "best-effort operation failed", "op", op, "error", err)
	}
}

func run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx)
}
