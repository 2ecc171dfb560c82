package booking

import "errors"

var (
	ErrNotEditable = errors.New("appointment is completed, cancelled or marked no-show and can no longer be modified")
	ErrBusy        = errors.New("a submission is already in progress")
	ErrNoTarget    = errors.New("no appointment is open for editing")
)

// ValidationError identifies the offending field so the operator sees a
// specific message, never a generic one.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErr(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// IsValidation reports whether err is a local validation failure (no network
// call was made).
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
