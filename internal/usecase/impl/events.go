package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "freshharvest/internal/delivery/context"
	"freshharvest/internal/domain/service"

	"github.com/google/uuid"
)

// newCatalogEvent stamps an event with a fresh id, the request id and the current time.
func newCatalogEvent(ctx context.Context, eventType service.CatalogEventType) *service.CatalogEvent {
	return &service.CatalogEvent{
		ID:         uuid.Must(uuid.NewV7()).String(),
		Type:       eventType,
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		OccurredAt: time.Now().UTC(),
	}
}

// publishEvent sends an event after a committed write. A failure is logged and
// does not undo or fail the write.
func publishEvent(ctx context.Context, publisher service.EventPublisher, logger *slog.Logger, event *service.CatalogEvent) {
	if publisher == nil {
		return
	}

	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish catalog event",
			slog.String("event_id", event.ID),
			slog.String("type", string(event.Type)),
			slog.Any("error", err),
		)
	}
}
