package auth

import "github.com/staffdesk/helpdesk-api/internal/domain"

// CanAccessTicket decides per-ticket read/write eligibility.
// Administrators have unconditional access. Anyone else may act on a
// ticket while it is still open (unclaimed), or when they are its
// assignee or creator.
func CanAccessTicket(ticket *domain.Ticket, user *domain.Profile) bool {
	if ticket == nil || user == nil {
		return false
	}
	if user.IsAdmin() {
		return true
	}
	if ticket.Status == domain.TicketStatusOpen {
		return true
	}
	if ticket.AssignedToUserID != nil && *ticket.AssignedToUserID == user.ID {
		return true
	}
	if ticket.CreatedByUserID != nil && *ticket.CreatedByUserID == user.ID {
		return true
	}
	return false
}
