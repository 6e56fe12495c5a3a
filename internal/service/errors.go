package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong password")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	// ErrGone is returned when deleting a row that no longer exists.
	ErrGone = errors.New("object is gone")

	// ErrNotImplemented is returned by every operation of a service whose
	// model is not bound to storage.
	ErrNotImplemented = errors.New("not implemented")
)
