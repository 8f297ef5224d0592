package service

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/staffdesk/helpdesk-api/internal/config"
	"github.com/staffdesk/helpdesk-api/internal/events"
)

// NotificationService forwards domain events to the notification stream.
// Delivery is best effort: a Redis failure is logged and never fails the
// originating request.
type NotificationService struct {
	dispatcher events.Dispatcher
	client     *redis.Client
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, client *redis.Client, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		client:     client,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to every ticket event.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketUpdated,
		events.EventTicketClosed,
		events.EventTicketMessageAdded,
	} {
		n.dispatcher.Subscribe(eventType, n.handleEvent)
	}
}

func (n *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	n.logger.Info("ticket event",
		zap.String("type", string(event.Type)),
		zap.String("ticket_id", event.TicketID),
		zap.String("actor_id", event.ActorID))

	if n.client == nil || n.cfg.StreamName == "" {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Warn("marshal event", zap.Error(err))
		return nil
	}

	if err := n.client.XAdd(ctx, &redis.XAddArgs{
		Stream: n.cfg.StreamName,
		Values: map[string]any{
			"type":  string(event.Type),
			"event": payload,
		},
	}).Err(); err != nil {
		n.logger.Warn("publish event to stream", zap.Error(err))
	}
	return nil
}
