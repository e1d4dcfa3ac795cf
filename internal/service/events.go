package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/models"
	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/service/integration"
)

type eventEmitter struct {
	publisher integration.EventPublisher
	logger    zerolog.Logger
}

// emit publishes after the change is committed. Failures are logged and
// never reach the caller.
func (e eventEmitter) emit(ctx context.Context, eventType, resourceID, parentID string) {
	if e.publisher == nil {
		return
	}

	event := &models.DomainEvent{
		EventID:    uuid.New().String(),
		Type:       eventType,
		ResourceID: resourceID,
		ParentID:   parentID,
		Timestamp:  time.Now().Unix(),
	}

	if err := e.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		e.logger.Warn().
			Err(err).
			Str("type", eventType).
			Str("resource_id", resourceID).
			Msg("Failed to publish domain event")
	}
}
