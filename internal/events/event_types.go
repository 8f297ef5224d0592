package events

import (
	"time"

	"github.com/staffdesk/helpdesk-api/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated      EventType = "ticket_created"
	EventTicketUpdated      EventType = "ticket_updated"
	EventTicketClosed       EventType = "ticket_closed"
	EventTicketMessageAdded EventType = "ticket_message_added"
)

// Event represents a domain event emitted by the mutation service.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title    string                `json:"title"`
	Status   domain.TicketStatus   `json:"status"`
	Priority domain.TicketPriority `json:"priority"`
}

// TicketUpdatedPayload payload.
type TicketUpdatedPayload struct {
	Status           *domain.TicketStatus   `json:"status,omitempty"`
	Priority         *domain.TicketPriority `json:"priority,omitempty"`
	AssignedToUserID *string                `json:"assigned_to_user_id,omitempty"`
}

// TicketClosedPayload payload.
type TicketClosedPayload struct {
	ClosedAt time.Time `json:"closed_at"`
}

// TicketMessageAddedPayload payload.
type TicketMessageAddedPayload struct {
	MessageID  string `json:"message_id"`
	IsInternal bool   `json:"is_internal"`
}
