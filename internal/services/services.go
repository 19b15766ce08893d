// Package services holds the domain operations behind the HTTP handlers.
package services

import (
	"context"
	"log/slog"

	"github.com/WillSeigler/Bookd/internal/events"
)

const (
	DefaultFeedLimit = 20
	MaxFeedLimit     = 50
	DefaultListLimit = 50
)

// normalizePage clamps feed pagination to sane bounds.
func normalizePage(limit, offset int) (int64, int64) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}
	if offset < 0 {
		offset = 0
	}
	return int64(limit), int64(offset)
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

func orNop(p events.Publisher) events.Publisher {
	if p == nil {
		return events.NopPublisher{}
	}
	return p
}

// publish never fails the caller; the mutation has already been committed.
func publish(ctx context.Context, p events.Publisher, logger *slog.Logger, ev events.Event) {
	if err := p.Publish(ctx, ev); err != nil {
		logger.WarnContext(ctx, "Failed to publish event", "subject", ev.Subject(), "error", err)
	}
}
