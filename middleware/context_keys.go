package middleware

// Context keys set by the auth middleware and read by handlers and the
// permission middleware. Stored as plain strings because gin context
// keys are strings.
const (
	// UserIDKey is the context key for the authenticated user's ID.
	UserIDKey = "user_id"
	// UserRoleKey is the context key for the authenticated user's role.
	UserRoleKey = "user_role"
	// CorporateClientIDKey is the corporate client the token is scoped to.
	CorporateClientIDKey = "corporate_client_id"
	// ProgramIDKey is the program the token is scoped to.
	ProgramIDKey = "program_id"
)
