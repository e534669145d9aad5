package types

import "time"

// CorporateClient is a top-level tenant organization owning one or more
// programs.
type CorporateClient struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Program is an operating unit within a corporate client; the primary
// scope for most staff roles.
type Program struct {
	ID                string    `json:"id"`
	CorporateClientID string    `json:"corporateClientId"`
	Name              string    `json:"name"`
	Active            bool      `json:"active"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Location is a pickup/dropoff site belonging to a program.
type Location struct {
	ID        string    `json:"id"`
	ProgramID string    `json:"programId"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
