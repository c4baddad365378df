package message

import "github.com/goliatone/go-errors"

const (
	CodeEmpty            = "EMPTY"
	CodeMalformedModule  = "MALFORMED_MODULE"
	CodeMalformedCommand = "MALFORMED_COMMAND"
	CodeMalformedOperant = "MALFORMED_OPERANT"
)

// Parse errors. They are returned as is so callers can match them with
// errors.Is.
var (
	ErrEmpty = errors.New("empty message", errors.CategoryBadInput).
			WithTextCode(CodeEmpty)
	ErrMalformedModule = errors.New("malformed module name", errors.CategoryBadInput).
				WithTextCode(CodeMalformedModule)
	ErrMalformedCommand = errors.New("malformed command", errors.CategoryBadInput).
				WithTextCode(CodeMalformedCommand)
	ErrMalformedOperant = errors.New("operant not found", errors.CategoryBadInput).
				WithTextCode(CodeMalformedOperant)
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
