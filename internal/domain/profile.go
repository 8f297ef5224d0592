package domain

import "time"

// UserType differentiates administrators from agents.
type UserType string

const (
	UserTypeAdmin UserType = "admin"
	UserTypeAgent UserType = "agent"
)

// Profile is the stored identity record for a staff member. Rows are
// created by the external identity system; this service only reads them
// and updates preferred categories.
type Profile struct {
	ID                   string
	FullName             *string
	Email                string
	UserType             UserType
	IsActive             bool
	PreferredCategoryIDs []string
	CreatedAt            time.Time
}

// IsAdmin reports whether the profile carries the admin role.
func (p *Profile) IsAdmin() bool {
	return p != nil && p.UserType == UserTypeAdmin
}
