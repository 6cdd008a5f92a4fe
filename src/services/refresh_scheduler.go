package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/username/shopledger/backend/src/logger"
)

// cronLogger routes cron's own messages into slog.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error(msg, append(keysAndValues, "error", err)...)
}

// StartRefreshScheduler refreshes the financial summary every interval.
// A run that is still going when the next tick fires makes that tick a no-op.
// Stop the returned scheduler on shutdown.
func StartRefreshScheduler(ctx context.Context, svc FinancialService, interval time.Duration) (*cron.Cron, error) {
	if interval < time.Second {
		return nil, fmt.Errorf("refresh interval must be at least 1s, got %s", interval)
	}

	cl := cronLogger{l: logger.L.With(slog.String("component", "refresh_scheduler"))}
	c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))

	_, err := c.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		runCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()
		if _, err := svc.Refresh(runCtx); err != nil {
			cl.l.Error("Scheduled summary refresh failed", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule summary refresh: %w", err)
	}

	c.Start()
	cl.l.Info("Summary refresh scheduled", "interval", interval.String())
	return c, nil
}
