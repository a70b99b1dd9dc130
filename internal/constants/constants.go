package constants

// Session / context keys
const (
	SessionCookieName   = "node_session"
	ContextKeyUserID    = "user_id"
	ContextKeyNode      = "node"
	ContextKeyMember    = "node_member"
	SessionKeyUserEmail = "user_email"
)

// Auth
const (
	MinPasswordLength = 8
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Invitation tokens are 32 random bytes, hex encoded.
const InvitationTokenBytes = 32

// API keys are 32 random bytes, hex encoded, prefixed for recognizability.
const (
	APIKeyBytes  = 32
	APIKeyPrefix = "nak_"
)
