package cron

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	CodeInvalidSchedule = "INVALID_SCHEDULE"
	CodeNilJob          = "NIL_JOB"
)

var (
	ErrInvalidSchedule = goerrors.New("invalid cron schedule", goerrors.CategoryValidation).
				WithTextCode(CodeInvalidSchedule)
	ErrNilJob = goerrors.New("job function cannot be nil", goerrors.CategoryValidation).
			WithTextCode(CodeNilJob)
)

// ErrorCode returns the text code carried by err, or "" when it has none.
func ErrorCode(err error) string {
	var e *goerrors.Error
	if goerrors.As(err, &e) {
		return e.TextCode
	}
	return ""
}
