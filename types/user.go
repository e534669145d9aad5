package types

import "time"

// User is a principal operating within the platform. Narrow roles
// (program_admin, program_user, driver) derive their visibility from
// PrimaryProgramID and AuthorizedPrograms rather than corporate
// membership.
type User struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	FirstName          string    `json:"firstName,omitempty"`
	LastName           string    `json:"lastName,omitempty"`
	Role               Role      `json:"role"`
	CorporateClientID  string    `json:"corporateClientId,omitempty"`
	PrimaryProgramID   string    `json:"primaryProgramId,omitempty"`
	AuthorizedPrograms []string  `json:"authorizedPrograms,omitempty"`
	Active             bool      `json:"active"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}
