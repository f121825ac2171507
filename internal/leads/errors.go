package leads

import "errors"

var (
	// ErrBotDetected is returned when the honeypot field is populated
	ErrBotDetected = errors.New("bot detected")

	// ErrInvalidLeadData is returned when a required-field check fails
	ErrInvalidLeadData = errors.New("invalid lead data")

	// ErrMessageTooLong is returned when the message exceeds the maximum length
	ErrMessageTooLong = errors.New("message too long")

	// ErrInvalidStatus is returned when a status update uses an unknown value
	ErrInvalidStatus = errors.New("invalid status")

	// ErrLeadNotFound is returned when a lead is not found
	ErrLeadNotFound = errors.New("lead not found")
)
