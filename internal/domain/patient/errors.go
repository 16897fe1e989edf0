package patient

import "errors"

var (
	ErrPatientNotFound  = errors.New("patient not found")
	ErrNameRequired     = errors.New("patient name is required")
	ErrInvalidSex       = errors.New("invalid sex value")
	ErrInvalidBirthDate = errors.New("birth date cannot be in the future")
)
