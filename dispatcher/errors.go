package dispatcher

import (
	"github.com/goliatone/go-errors"

	"github.com/goliatone/go-prompt/rpc"
)

const (
	CodeInvalidOperant   = "INVALID_OPERANT"
	CodeUnknownRecipe    = "UNKNOWN_RECIPE"
	CodeUnknownModel     = "UNKNOWN_MODEL"
	CodeMalformedMessage = "MALFORMED_MESSAGE"
	CodeDirectoryFull    = "DIRECTORY_FULL"
	CodeDuplicateRecipe  = "DUPLICATE_RECIPE"
)

// Dispatch errors, returned by FromMessage.
var (
	ErrInvalidOperant = errors.New("operant cannot be dispatched", errors.CategoryBadInput).
				WithTextCode(CodeInvalidOperant)
	ErrUnknownRecipe = errors.New("no recipe registered for module", errors.CategoryNotFound).
				WithTextCode(CodeUnknownRecipe)
	ErrUnknownModel = errors.New("no model registered for command", errors.CategoryNotFound).
			WithTextCode(CodeUnknownModel)
	ErrMalformedMessage = errors.New("request carries no command", errors.CategoryBadInput).
				WithTextCode(CodeMalformedMessage)
)

// Registration errors, returned by HotloadRecipe.
var (
	ErrDirectoryFull = errors.New("recipe directory is full", errors.CategoryConflict).
				WithTextCode(CodeDirectoryFull)
	ErrDuplicateRecipe = errors.New("recipe already loaded for module", errors.CategoryConflict).
				WithTextCode(CodeDuplicateRecipe)
	ErrNilRecipe = rpc.ErrNilRecipe
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
