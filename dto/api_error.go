package dto

type APIErrorResponse struct {
	Message   string    `json:"message"`
	ErrorCode ErrorCode `json:"error_code"`
	Issues    []string  `json:"issues,omitempty"`
}

type ErrorCode string

const (
	BadParameter     ErrorCode = "bad_parameter"
	NotFound         ErrorCode = "not_found"
	DuplicateValue   ErrorCode = "duplicate_value"
	OverridesInvalid ErrorCode = "overrides_invalid"
	InternalError    ErrorCode = "internal_error"
)
