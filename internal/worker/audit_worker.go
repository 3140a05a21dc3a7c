package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/session-service/internal/events"
)

// StartAuditWorker subscribes an audit logger to every auth event type.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}

	types := []events.EventType{
		events.EventLoginSucceeded,
		events.EventLoginFailed,
		events.EventUserRegistered,
		events.EventTokenRefreshed,
		events.EventLoggedOut,
	}

	for _, eventType := range types {
		dispatcher.Subscribe(eventType, func(_ context.Context, event events.Event) error {
			logger.Info("auth audit",
				zap.String("event_id", event.ID),
				zap.String("type", string(event.Type)),
				zap.String("username", event.Username),
				zap.Time("at", event.Timestamp),
			)
			return nil
		})
	}
}
