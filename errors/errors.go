package errors

import "fmt"

var (
	ErrNotInChat     = fmt.Errorf("participant is not in the chat")
	ErrNameTooLong   = fmt.Errorf("nickname exceeds the allowed length")
	ErrUnknownCode   = fmt.Errorf("no active participant carries this code")
	ErrRecipientGone = fmt.Errorf("recipient has left the chat")
	ErrPollNotFound  = fmt.Errorf("no poll exists for this creator")
	ErrPollClosed    = fmt.Errorf("poll is closed")
	ErrInvalidOption = fmt.Errorf("poll option index out of range")
	ErrNoOptions     = fmt.Errorf("a poll needs a question and at least one option")
	ErrNoPendingFlow = fmt.Errorf("no interaction in progress")
	ErrBadToken      = fmt.Errorf("malformed callback token")
	ErrWorkerPanic   = fmt.Errorf("worker panic")
)
