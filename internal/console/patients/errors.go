package patients

import "errors"

var (
	ErrDraftNameRequired   = errors.New("patient name is required")
	ErrDraftMobileRequired = errors.New("mobile number is required")
	ErrDraftMobileInvalid  = errors.New("mobile number is not valid")
	ErrNoPatientResolved   = errors.New("select a patient or complete the new patient details")
)
