package contract

import "errors"

var (
	ErrUpstream         = errors.New("language model call failed")
	ErrSchemaViolation  = errors.New("model response violates schema")
	ErrModelUnavailable = errors.New("model is not configured")
	ErrPromptMissing    = errors.New("required prompt is missing")
	ErrValidation       = errors.New("validation failed")
)

// IsUpstream reports whether err came from the language model rather than this service.
func IsUpstream(err error) bool {
	return errors.Is(err, ErrUpstream) || errors.Is(err, ErrSchemaViolation)
}
