package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/vesting-service/internal/events"
)

// AuditService records every domain event in the log and on the event stream.
type AuditService struct {
	dispatcher events.Dispatcher
	stream     *events.StreamPublisher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, stream *events.StreamPublisher, logger *zap.Logger) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		stream:     stream,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.SubscribeAll(a.handle)
}

func (a *AuditService) handle(ctx context.Context, event events.Event) error {
	a.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.Stringer("subject", event.Subject),
		zap.Stringer("actor", event.Actor),
		zap.Any("payload", event.Payload))
	return a.stream.Append(ctx, event)
}
