package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/staffdesk/helpdesk-api/internal/config"
	"github.com/staffdesk/helpdesk-api/internal/events"
)

type countingDispatcher struct {
	subscriptions map[events.EventType]int
}

func (d *countingDispatcher) Publish(_ context.Context, _ events.Event) error { return nil }

func (d *countingDispatcher) Subscribe(eventType events.EventType, _ events.EventHandler) {
	if d.subscriptions == nil {
		d.subscriptions = map[events.EventType]int{}
	}
	d.subscriptions[eventType]++
}

func TestNotificationServiceSubscribesToAllTicketEvents(t *testing.T) {
	dispatcher := &countingDispatcher{}
	svc := NewNotificationService(dispatcher, nil, zap.NewNop(), config.NotificationConfig{StreamName: "helpdesk:events"})

	svc.RegisterHandlers()

	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketUpdated,
		events.EventTicketClosed,
		events.EventTicketMessageAdded,
	} {
		assert.Equal(t, 1, dispatcher.subscriptions[eventType], "missing subscription for %s", eventType)
	}
}

func TestNotificationServiceNilDispatcher(t *testing.T) {
	svc := NewNotificationService(nil, nil, zap.NewNop(), config.NotificationConfig{})
	assert.NotPanics(t, svc.RegisterHandlers)
}

func TestHandleEventWithoutClientIsNoop(t *testing.T) {
	svc := NewNotificationService(&countingDispatcher{}, nil, zap.NewNop(), config.NotificationConfig{StreamName: "helpdesk:events"})

	err := svc.handleEvent(context.Background(), events.Event{Type: events.EventTicketCreated, TicketID: "t-1"})
	assert.NoError(t, err)
}
