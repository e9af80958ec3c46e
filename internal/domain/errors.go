package domain

import "errors"

// Domain errors
var (
	ErrTitleRequired    = errors.New("title is required")
	ErrSubmitInFlight   = errors.New("submission already in flight")
	ErrSubmitNotAllowed = errors.New("form is not valid for submission")
	ErrSessionNotFound  = errors.New("page session not found")
	ErrEmptyCode        = errors.New("pool created without a code")
)
