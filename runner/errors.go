package runner

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	CodeRunFailed = "RUN_FAILED"
	CodeRunLimit  = "RUN_LIMIT"
)

var (
	// ErrRunFailed wraps the last error of a job that exhausted its retries.
	ErrRunFailed = goerrors.New("job run failed", goerrors.CategoryHandler).
			WithTextCode(CodeRunFailed)

	// ErrRunLimit is returned when a handler refuses to run because it
	// already reached its run budget.
	ErrRunLimit = goerrors.New("job run limit reached", goerrors.CategoryConflict).
			WithTextCode(CodeRunLimit)
)

// ErrorCode returns the text code carried by err, or "" when it has none.
func ErrorCode(err error) string {
	var e *goerrors.Error
	if goerrors.As(err, &e) {
		return e.TextCode
	}
	return ""
}

func wrapRunError(err error, attempt, attempts int) error {
	return goerrors.Wrap(err, goerrors.CategoryHandler, "job run failed").
		WithTextCode(CodeRunFailed).
		WithMetadata(map[string]any{
			"attempt":  attempt,
			"attempts": attempts,
		})
}
