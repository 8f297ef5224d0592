package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/staffdesk/helpdesk-api/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestCanAccessTicket(t *testing.T) {
	admin := &domain.Profile{ID: "admin-1", UserType: domain.UserTypeAdmin}
	agent := &domain.Profile{ID: "agent-1", UserType: domain.UserTypeAgent}

	tests := []struct {
		name   string
		ticket *domain.Ticket
		user   *domain.Profile
		want   bool
	}{
		{
			name:   "nil ticket",
			ticket: nil,
			user:   admin,
			want:   false,
		},
		{
			name:   "nil user",
			ticket: &domain.Ticket{Status: domain.TicketStatusOpen},
			user:   nil,
			want:   false,
		},
		{
			name:   "admin always allowed",
			ticket: &domain.Ticket{Status: domain.TicketStatusClosed, AssignedToUserID: strPtr("someone-else")},
			user:   admin,
			want:   true,
		},
		{
			name:   "open ticket visible to any agent",
			ticket: &domain.Ticket{Status: domain.TicketStatusOpen},
			user:   agent,
			want:   true,
		},
		{
			name:   "assignee allowed after claim",
			ticket: &domain.Ticket{Status: domain.TicketStatusInProgress, AssignedToUserID: strPtr("agent-1")},
			user:   agent,
			want:   true,
		},
		{
			name:   "creator allowed after claim by someone else",
			ticket: &domain.Ticket{Status: domain.TicketStatusInProgress, AssignedToUserID: strPtr("other"), CreatedByUserID: strPtr("agent-1")},
			user:   agent,
			want:   true,
		},
		{
			name:   "unrelated agent denied on claimed ticket",
			ticket: &domain.Ticket{Status: domain.TicketStatusInProgress, AssignedToUserID: strPtr("other"), CreatedByUserID: strPtr("other")},
			user:   agent,
			want:   false,
		},
		{
			name:   "unrelated agent denied on closed ticket",
			ticket: &domain.Ticket{Status: domain.TicketStatusClosed},
			user:   agent,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccessTicket(tt.ticket, tt.user))
		})
	}
}
