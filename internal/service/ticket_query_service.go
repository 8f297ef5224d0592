package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/staffdesk/helpdesk-api/internal/auth"
	"github.com/staffdesk/helpdesk-api/internal/domain"
	"github.com/staffdesk/helpdesk-api/internal/repository"
	apperrors "github.com/staffdesk/helpdesk-api/pkg/util"
)

// TicketListInput carries the caller-supplied list filters.
type TicketListInput struct {
	Tab              repository.TicketTab
	Status           *domain.TicketStatus
	Priority         *domain.TicketPriority
	DepartmentID     *string
	ProductID        *string
	CategoryID       *string
	AssignedToUserID *string
	Search           *string
	Page             int
	PageSize         int
}

// TicketListResult is one page of tickets plus the total match count.
type TicketListResult struct {
	Data     []domain.TicketWithRelations
	Page     int
	PageSize int
	Total    int64
}

// TicketDetail bundles a ticket with its message thread and the derived
// priority rank.
type TicketDetail struct {
	Ticket       domain.TicketWithRelations
	Messages     []domain.TicketMessage
	PriorityRank int
}

// TicketQueryService composes filter parameters into the aggregate list
// query and maps result rows into the public ticket shape.
type TicketQueryService struct {
	tickets  repository.TicketRepository
	messages repository.TicketMessageRepository
}

// NewTicketQueryService constructs the service.
func NewTicketQueryService(tickets repository.TicketRepository, messages repository.TicketMessageRepository) *TicketQueryService {
	return &TicketQueryService{tickets: tickets, messages: messages}
}

// List returns one page of tickets visible to the caller. The single
// aggregate query also reports the total match count, read from the
// first row when any rows exist.
func (s *TicketQueryService) List(ctx context.Context, input TicketListInput, user *domain.Profile) (*TicketListResult, error) {
	tab := input.Tab
	if tab == "" {
		tab = repository.TabQueue
	}
	page := input.Page
	if page < 1 {
		page = 1
	}
	pageSize := input.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	filter := repository.TicketFilter{
		ViewerID:         user.ID,
		ViewerAdmin:      user.IsAdmin(),
		Tab:              tab,
		Status:           input.Status,
		Priority:         input.Priority,
		DepartmentID:     input.DepartmentID,
		ProductID:        input.ProductID,
		CategoryID:       input.CategoryID,
		AssignedToUserID: input.AssignedToUserID,
		Search:           input.Search,
		Page:             page,
		PageSize:         pageSize,
	}

	rows, total, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.TicketWithRelations{}
	}
	return &TicketListResult{
		Data:     rows,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}

// Summary returns dashboard counts scoped to the caller's visibility.
func (s *TicketQueryService) Summary(ctx context.Context, user *domain.Profile) (domain.DashboardSummary, error) {
	return s.tickets.Summary(ctx, user.ID, user.IsAdmin())
}

// QueuePreview returns the top rows of the queue tab.
func (s *TicketQueryService) QueuePreview(ctx context.Context, user *domain.Profile) ([]domain.TicketWithRelations, error) {
	result, err := s.List(ctx, TicketListInput{
		Tab:      repository.TabQueue,
		Page:     1,
		PageSize: 10,
	}, user)
	if err != nil {
		return nil, err
	}
	return result.Data, nil
}

// Detail loads one ticket with relations and its messages ordered by
// creation time. Access is policy gated: absent ticket is NotFound,
// denied access is Forbidden.
func (s *TicketQueryService) Detail(ctx context.Context, id string, user *domain.Profile) (*TicketDetail, error) {
	ticket, err := s.tickets.GetWithRelations(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
		}
		return nil, err
	}
	if !auth.CanAccessTicket(&ticket.Ticket, user) {
		return nil, apperrors.NewForbidden("no access to this ticket")
	}

	messages, err := s.messages.ListByTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []domain.TicketMessage{}
	}

	return &TicketDetail{
		Ticket:       *ticket,
		Messages:     messages,
		PriorityRank: ticket.Priority.Rank(),
	}, nil
}
