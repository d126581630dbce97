package domain

// Callback token prefixes. Tokens are pipe-delimited; the first segment names
// the action, the rest are arguments.
const (
	TokenDMSelect       = "dm_select"
	TokenDMCancel       = "dm_cancel"
	TokenHugSelect      = "hug_select"
	TokenHugCancel      = "hug_cancel"
	TokenPollVote       = "pollvote"
	TokenNotify         = "notify"
	TokenNotifyCancel   = "cancel"
	TokenNotifyInterval = "interval"
)
