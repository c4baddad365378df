package prompt

import "github.com/goliatone/go-errors"

const (
	CodeAlreadyInitialized = "PROMPT_ALREADY_INITIALIZED"
	CodeNotInitialized     = "PROMPT_NOT_INITIALIZED"
	CodeNoDatalink         = "PROMPT_NO_DATALINK"
	CodeInvalidConfig      = "INVALID_CONFIG"
	CodeUnsupportedConfig  = "UNSUPPORTED_CONFIG_FORMAT"
	CodeConfigRead         = "CONFIG_READ_FAILED"
	CodeConfigDecode       = "CONFIG_DECODE_FAILED"
)

var (
	ErrAlreadyInitialized = errors.New("prompt already initialized", errors.CategoryConflict).
				WithTextCode(CodeAlreadyInitialized)
	ErrNotInitialized = errors.New("prompt not initialized", errors.CategoryConflict).
				WithTextCode(CodeNotInitialized)
	ErrNoDatalink = errors.New("prompt has no datalink", errors.CategoryBadInput).
			WithTextCode(CodeNoDatalink)
	ErrInvalidConfig = errors.New("invalid prompt configuration", errors.CategoryValidation).
				WithTextCode(CodeInvalidConfig)
	ErrUnsupportedConfig = errors.New("unsupported config file format", errors.CategoryValidation).
				WithTextCode(CodeUnsupportedConfig)
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
