package bookings

import "errors"

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrZoneNotFound      = errors.New("zone not found")
	ErrInvalidCompletion = errors.New("invalid completion type")
)
