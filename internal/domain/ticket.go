package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen            TicketStatus = "open"
	TicketStatusInProgress      TicketStatus = "in_progress"
	TicketStatusWaitingCustomer TicketStatus = "waiting_customer"
	TicketStatusResolved        TicketStatus = "resolved"
	TicketStatusClosed          TicketStatus = "closed"
)

// TicketStatuses lists every valid status in workflow order.
var TicketStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusInProgress,
	TicketStatusWaitingCustomer,
	TicketStatusResolved,
	TicketStatusClosed,
}

// Valid reports whether the status belongs to the enum.
func (s TicketStatus) Valid() bool {
	for _, candidate := range TicketStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// TicketPriorities lists every valid priority in rank order.
var TicketPriorities = []TicketPriority{
	TicketPriorityLow,
	TicketPriorityMedium,
	TicketPriorityHigh,
	TicketPriorityUrgent,
}

// Valid reports whether the priority belongs to the enum.
func (p TicketPriority) Valid() bool {
	for _, candidate := range TicketPriorities {
		if p == candidate {
			return true
		}
	}
	return false
}

// Rank maps priorities onto a total order for sorting. Unknown
// priorities rank 0.
func (p TicketPriority) Rank() int {
	switch p {
	case TicketPriorityLow:
		return 1
	case TicketPriorityMedium:
		return 2
	case TicketPriorityHigh:
		return 3
	case TicketPriorityUrgent:
		return 4
	default:
		return 0
	}
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID                   string
	CompanyID            *string
	DepartmentID         *string
	ProductID            *string
	CategoryID           *string
	Title                string
	Description          *string
	Status               TicketStatus
	Priority             TicketPriority
	CreatedByUserID      *string
	RequestedByContactID *string
	RequestedByEmail     *string
	AssignedToUserID     *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
	ClosedAt             *time.Time
}

// NamedRef is a foreign reference enriched with its display name.
type NamedRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProfileRef is a profile reference enriched with display fields.
type ProfileRef struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name"`
}

// ContactRef is a company-contact reference enriched with display fields.
type ContactRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TicketWithRelations is the public ticket shape: every nullable foreign
// key is mirrored by either nil or an embedded named object, never a bare
// identifier alongside a separately fetched name.
type TicketWithRelations struct {
	Ticket
	Company            *NamedRef
	Department         *NamedRef
	Product            *NamedRef
	Category           *NamedRef
	Assignee           *ProfileRef
	Creator            *ProfileRef
	RequestedByContact *ContactRef
}

// DashboardSummary aggregates ticket counts for the dashboard.
type DashboardSummary struct {
	Open            int64 `json:"open"`
	InProgress      int64 `json:"in_progress"`
	WaitingCustomer int64 `json:"waiting_customer"`
	ResolvedToday   int64 `json:"resolved_today"`
	ClosedToday     int64 `json:"closed_today"`
}
