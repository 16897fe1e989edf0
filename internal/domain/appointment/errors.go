package appointment

import "errors"

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrInvalidStatus       = errors.New("invalid appointment status")
	ErrDateTimeRequired    = errors.New("appointment date and time are required")
)
