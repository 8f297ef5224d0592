package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/staffdesk/helpdesk-api/internal/auth"
	"github.com/staffdesk/helpdesk-api/internal/domain"
	"github.com/staffdesk/helpdesk-api/internal/events"
	"github.com/staffdesk/helpdesk-api/internal/repository"
	apperrors "github.com/staffdesk/helpdesk-api/pkg/util"
)

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title                string
	Description          string
	Status               *domain.TicketStatus
	Priority             *domain.TicketPriority
	DepartmentID         *string
	ProductID            *string
	CategoryID           *string
	CompanyID            *string
	RequestedByContactID *string
	RequestedByEmail     *string
}

// MessageCreateInput describes the add-message payload.
type MessageCreateInput struct {
	Content    string
	IsInternal bool
}

// MessageUpdateInput describes the editable message fields.
type MessageUpdateInput struct {
	Content     *string
	IsDone      *bool
	DueDate     *time.Time
	Observation *string
}

// TicketUpdateInput describes the partial-update fields of a ticket.
type TicketUpdateInput struct {
	Status           *domain.TicketStatus
	Priority         *domain.TicketPriority
	AssignedToUserID *string
	DepartmentID     *string
	ProductID        *string
	CategoryID       *string
}

// Empty reports whether no field is supplied.
func (in TicketUpdateInput) Empty() bool {
	return in.Status == nil && in.Priority == nil && in.AssignedToUserID == nil &&
		in.DepartmentID == nil && in.ProductID == nil && in.CategoryID == nil
}

// TicketMutationService performs all ticket writes, each gated by the
// access policy and followed by an updated-timestamp refresh where
// applicable.
type TicketMutationService struct {
	tickets    repository.TicketRepository
	messages   repository.TicketMessageRepository
	dispatcher events.Dispatcher
}

// NewTicketMutationService constructs the service.
func NewTicketMutationService(tickets repository.TicketRepository, messages repository.TicketMessageRepository, dispatcher events.Dispatcher) *TicketMutationService {
	return &TicketMutationService{tickets: tickets, messages: messages, dispatcher: dispatcher}
}

// Create inserts a ticket and its first message, whose content equals
// the ticket description, in one transaction. Status defaults to open
// and priority to medium.
func (s *TicketMutationService) Create(ctx context.Context, input TicketCreateInput, user *domain.Profile) (*domain.Ticket, error) {
	status := domain.TicketStatusOpen
	if input.Status != nil {
		status = *input.Status
	}
	priority := domain.TicketPriorityMedium
	if input.Priority != nil {
		priority = *input.Priority
	}

	description := strings.TrimSpace(input.Description)
	creatorID := user.ID
	ticket := &domain.Ticket{
		CompanyID:            input.CompanyID,
		DepartmentID:         input.DepartmentID,
		ProductID:            input.ProductID,
		CategoryID:           input.CategoryID,
		Title:                strings.TrimSpace(input.Title),
		Description:          &description,
		Status:               status,
		Priority:             priority,
		CreatedByUserID:      &creatorID,
		RequestedByContactID: input.RequestedByContactID,
		RequestedByEmail:     input.RequestedByEmail,
	}
	firstMessage := &domain.TicketMessage{
		AuthorUserID: &creatorID,
		IsInternal:   false,
		Content:      description,
	}

	if err := s.tickets.CreateWithInitialMessage(ctx, ticket, firstMessage); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  user.ID,
		Payload: events.TicketCreatedPayload{
			Title:    ticket.Title,
			Status:   ticket.Status,
			Priority: ticket.Priority,
		},
	})
	return ticket, nil
}

// AddMessage appends a message to a ticket and touches its updated
// timestamp.
func (s *TicketMutationService) AddMessage(ctx context.Context, ticketID string, input MessageCreateInput, user *domain.Profile) (*domain.TicketMessage, error) {
	if _, err := s.loadAccessibleTicket(ctx, ticketID, user); err != nil {
		return nil, err
	}

	authorID := user.ID
	message := &domain.TicketMessage{
		TicketID:     ticketID,
		AuthorUserID: &authorID,
		IsInternal:   input.IsInternal,
		Content:      strings.TrimSpace(input.Content),
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, err
	}
	if err := s.tickets.Touch(ctx, ticketID); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketMessageAdded,
		TicketID: ticketID,
		ActorID:  user.ID,
		Payload: events.TicketMessageAddedPayload{
			MessageID:  message.ID,
			IsInternal: message.IsInternal,
		},
	})
	return message, nil
}

// UpdateMessage edits the task-like fields of a message. Access follows
// the parent ticket's policy; a message of another ticket is NotFound.
func (s *TicketMutationService) UpdateMessage(ctx context.Context, ticketID, messageID string, input MessageUpdateInput, user *domain.Profile) (*domain.TicketMessage, error) {
	if _, err := s.loadAccessibleTicket(ctx, ticketID, user); err != nil {
		return nil, err
	}

	existing, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket message", map[string]any{"id": messageID})
		}
		return nil, err
	}
	if existing.TicketID != ticketID {
		return nil, apperrors.NewNotFound("ticket message", map[string]any{"id": messageID})
	}

	updated, err := s.messages.Update(ctx, messageID, repository.MessageUpdate{
		Content:     input.Content,
		IsDone:      input.IsDone,
		DueDate:     input.DueDate,
		Observation: input.Observation,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket message", map[string]any{"id": messageID})
		}
		return nil, err
	}
	return updated, nil
}

// Update applies the supplied fields and always refreshes updated_at.
// Any supplied status other than closed clears closed_at; closed stamps
// it.
func (s *TicketMutationService) Update(ctx context.Context, ticketID string, input TicketUpdateInput, user *domain.Profile) (*domain.Ticket, error) {
	if _, err := s.loadAccessibleTicket(ctx, ticketID, user); err != nil {
		return nil, err
	}

	update := repository.TicketUpdate{
		Status:           input.Status,
		Priority:         input.Priority,
		AssignedToUserID: input.AssignedToUserID,
		DepartmentID:     input.DepartmentID,
		ProductID:        input.ProductID,
		CategoryID:       input.CategoryID,
	}
	if input.Status != nil {
		if *input.Status == domain.TicketStatusClosed {
			now := time.Now()
			update.ClosedAt = &now
		} else {
			update.ClearClosedAt = true
		}
	}

	ticket, err := s.tickets.UpdateFields(ctx, ticketID, update)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: ticket.ID,
		ActorID:  user.ID,
		Payload: events.TicketUpdatedPayload{
			Status:           input.Status,
			Priority:         input.Priority,
			AssignedToUserID: input.AssignedToUserID,
		},
	})
	return ticket, nil
}

// AssignToMe assigns the ticket to the acting user.
func (s *TicketMutationService) AssignToMe(ctx context.Context, ticketID string, user *domain.Profile) (*domain.Ticket, error) {
	userID := user.ID
	return s.Update(ctx, ticketID, TicketUpdateInput{AssignedToUserID: &userID}, user)
}

// Close sets status to closed and stamps closed_at and updated_at,
// unconditionally. Closing twice is idempotent.
func (s *TicketMutationService) Close(ctx context.Context, ticketID string, user *domain.Profile) (*domain.Ticket, error) {
	if _, err := s.loadAccessibleTicket(ctx, ticketID, user); err != nil {
		return nil, err
	}

	ticket, err := s.tickets.Close(ctx, ticketID, time.Now())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketClosed,
		TicketID: ticket.ID,
		ActorID:  user.ID,
		Payload:  events.TicketClosedPayload{ClosedAt: *ticket.ClosedAt},
	})
	return ticket, nil
}

func (s *TicketMutationService) loadAccessibleTicket(ctx context.Context, ticketID string, user *domain.Profile) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return nil, err
	}
	if !auth.CanAccessTicket(ticket, user) {
		return nil, apperrors.NewForbidden("no access to this ticket")
	}
	return ticket, nil
}

func (s *TicketMutationService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
