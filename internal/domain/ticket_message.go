package domain

import "time"

// TicketMessage captures the task-like notes attached to a ticket. The
// first message of a ticket mirrors its description; later ones are added
// explicitly and may be internal-only.
type TicketMessage struct {
	ID           string
	TicketID     string
	AuthorUserID *string
	IsInternal   bool
	Content      string
	IsDone       bool
	CompletedAt  *time.Time
	DueDate      *time.Time
	Observation  *string
	CreatedAt    time.Time
}
