package datalink

import "github.com/goliatone/go-errors"

const (
	CodeMessageTooLong = "MESSAGE_TOO_LONG"
	CodePoolExhausted  = "POOL_EXHAUSTED"
	CodeReplyStalled   = "REPLY_STALLED"
)

var (
	ErrMessageTooLong = errors.New("incoming line exceeds message length", errors.CategoryBadInput).
				WithTextCode(CodeMessageTooLong)
	ErrPoolExhausted = errors.New("no message buffer available", errors.CategoryConflict).
				WithTextCode(CodePoolExhausted)
	ErrReplyStalled = errors.New("transport accepted no bytes of a streamed reply", errors.CategoryExternal).
			WithTextCode(CodeReplyStalled)
)

// ErrorCode returns the text code carried by err, or "" when err is not a
// go-errors value.
func ErrorCode(err error) string {
	var ge *errors.Error
	if errors.As(err, &ge) {
		return ge.TextCode
	}
	return ""
}
