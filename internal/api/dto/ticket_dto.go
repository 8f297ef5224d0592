package dto

import (
	"time"

	"github.com/staffdesk/helpdesk-api/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title                string                 `json:"title"`
	Description          string                 `json:"description"`
	Status               *domain.TicketStatus   `json:"status"`
	Priority             *domain.TicketPriority `json:"priority"`
	DepartmentID         *string                `json:"department_id"`
	ProductID            *string                `json:"product_id"`
	CategoryID           *string                `json:"category_id"`
	CompanyID            *string                `json:"company_id"`
	RequestedByContactID *string                `json:"requested_by_contact_id"`
	RequestedByEmail     *string                `json:"requested_by_email"`
}

// UpdateTicketRequest payload; absent fields stay untouched.
type UpdateTicketRequest struct {
	Status           *domain.TicketStatus   `json:"status"`
	Priority         *domain.TicketPriority `json:"priority"`
	AssignedToUserID *string                `json:"assigned_to_user_id"`
	DepartmentID     *string                `json:"department_id"`
	ProductID        *string                `json:"product_id"`
	CategoryID       *string                `json:"category_id"`
}

// AddTicketMessageRequest payload.
type AddTicketMessageRequest struct {
	Content    string `json:"content"`
	IsInternal bool   `json:"is_internal"`
}

// UpdateTicketMessageRequest payload; absent fields stay untouched.
type UpdateTicketMessageRequest struct {
	Content     *string `json:"content"`
	IsDone      *bool   `json:"is_done"`
	DueDate     *string `json:"due_date"`
	Observation *string `json:"observation"`
}

// TicketResponse is the public ticket shape with embedded relations.
type TicketResponse struct {
	ID                   string                `json:"id"`
	CompanyID            *string               `json:"company_id"`
	DepartmentID         *string               `json:"department_id"`
	ProductID            *string               `json:"product_id"`
	CategoryID           *string               `json:"category_id"`
	Title                string                `json:"title"`
	Description          *string               `json:"description"`
	Status               domain.TicketStatus   `json:"status"`
	Priority             domain.TicketPriority `json:"priority"`
	CreatedByUserID      *string               `json:"created_by_user_id"`
	RequestedByContactID *string               `json:"requested_by_contact_id"`
	RequestedByEmail     *string               `json:"requested_by_email"`
	AssignedToUserID     *string               `json:"assigned_to_user_id"`
	CreatedAt            time.Time             `json:"created_at"`
	UpdatedAt            time.Time             `json:"updated_at"`
	ClosedAt             *time.Time            `json:"closed_at"`
	Company              *domain.NamedRef      `json:"company"`
	Department           *domain.NamedRef      `json:"department"`
	Product              *domain.NamedRef      `json:"product"`
	Category             *domain.NamedRef      `json:"category"`
	Assignee             *domain.ProfileRef    `json:"assignee"`
	Creator              *domain.ProfileRef    `json:"creator"`
	RequestedByContact   *domain.ContactRef    `json:"requested_by_contact"`
}

// TicketListResponse is one page of tickets.
type TicketListResponse struct {
	Data     []TicketResponse `json:"data"`
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
	Total    int64            `json:"total"`
}

// TicketMessageResponse represents one thread message.
type TicketMessageResponse struct {
	ID           string     `json:"id"`
	TicketID     string     `json:"ticket_id"`
	AuthorUserID *string    `json:"author_user_id"`
	IsInternal   bool       `json:"is_internal"`
	Content      string     `json:"content"`
	IsDone       bool       `json:"is_done"`
	CompletedAt  *time.Time `json:"completed_at"`
	DueDate      *time.Time `json:"due_date"`
	Observation  *string    `json:"observation"`
	CreatedAt    time.Time  `json:"created_at"`
}

// TicketDetailResponse bundles a ticket with its messages and derived
// priority rank.
type TicketDetailResponse struct {
	Ticket       TicketResponse          `json:"ticket"`
	Messages     []TicketMessageResponse `json:"messages"`
	PriorityRank int                     `json:"priority_rank"`
}
