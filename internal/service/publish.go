package service

import (
	"context"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/logger"
	"github.com/wsbKuba/Klub-Sztuki-Walk/pkg/events"
)

// publishEvent is called after commit. A failed publish is logged and never fails the caller.
func publishEvent(ctx context.Context, publisher events.Publisher, log logger.ILogger, eventType string, data map[string]interface{}) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, events.New(eventType, data)); err != nil {
		log.Warn("Events", "Failed to publish event", map[string]interface{}{
			"type":  eventType,
			"error": err.Error(),
		})
	}
}
