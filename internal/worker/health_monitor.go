package worker

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/session-service/internal/httpclient"
)

// StartHealthMonitor polls the health endpoint at the given interval and
// logs degradations. It returns immediately; polling stops when ctx ends.
func StartHealthMonitor(ctx context.Context, client *httpclient.Client, interval time.Duration, logger *zap.Logger) {
	if client == nil || interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				resp, err := client.Get(ctx, "/health")
				if err != nil {
					logger.Warn("health check failed", zap.Error(err))
					continue
				}
				if resp.StatusCode != http.StatusOK {
					logger.Warn("health check degraded", zap.Int("status", resp.StatusCode))
				} else {
					logger.Debug("health check ok")
				}
			}
		}
	}()
}
