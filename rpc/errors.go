package rpc

import "github.com/goliatone/go-errors"

var (
	ErrNilRecipe = errors.New("recipe cannot be nil", errors.CategoryBadInput).
			WithTextCode("NIL_RECIPE")
	ErrInvalidModule = errors.New("recipe module name has invalid length", errors.CategoryValidation).
				WithTextCode("INVALID_MODULE")
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
