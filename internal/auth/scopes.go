package auth

// Scopes checked by the plan endpoints.
const (
	ScopePlansWrite = "plans:write"
	ScopePlansRead  = "plans:read"
)
