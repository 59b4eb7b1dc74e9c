package constants

const (
	// ContextKeyUserID is used both as the session key and the gin context key
	// holding the authenticated user's ID.
	ContextKeyUserID = "user_id"

	// ContextKeyIdeaID holds the idea ID parsed by RequireIdeaID.
	ContextKeyIdeaID = "idea_id"

	// ContextKeyRequestID holds the per-request correlation ID.
	ContextKeyRequestID = "request_id"

	SessionCookieName = "idea_session"
	SessionMaxAge     = 86400 * 7

	MinUsernameLength     = 3
	MaxUsernameLength     = 50
	MaxMarketingTagLength = 50
	MaxAISuggestedIdeas   = 5

	// MaxTextFieldLength matches the varchar(255) idea columns.
	MaxTextFieldLength = 255
	// MaxEstimatedCost is the largest value a decimal(14,2) column holds.
	MaxEstimatedCost = 999999999999.99
)
