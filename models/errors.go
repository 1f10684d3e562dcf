package models

import (
	"github.com/cockroachdb/errors"
)

// Base errors, related to default API status codes
var (
	// BadParameterError is rendered with the http status code 400
	BadParameterError = errors.New("bad parameter")

	// NotFoundError is rendered with the http status code 404
	NotFoundError = errors.New("not found")

	// ConflictError is rendered with the http status code 409
	ConflictError = errors.New("duplicate value")

	// UnprocessableEntityError is rendered with the http status code 422
	UnprocessableEntityError = errors.New("unprocessable entity")
)

// Report submission errors
var (
	ErrUnknownTemplate = errors.Wrap(NotFoundError, "unknown notebook template")
	ErrResultDeleted   = errors.Wrap(NotFoundError, "result has been deleted")
)

// Schedule errors
var (
	ErrInvalidCronExpression = errors.Wrap(BadParameterError, "invalid cron expression")
)

// OverrideIssuesError carries the override evaluation issues back to the
// caller so the API can list them all at once.
type OverrideIssuesError struct {
	Issues []string
}

func (e OverrideIssuesError) Error() string {
	return "overrides could not be evaluated"
}

func (e OverrideIssuesError) Is(target error) bool {
	return target == UnprocessableEntityError
}
