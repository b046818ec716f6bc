package errors

import "errors"

var (
	ErrAutomationNotFound     = errors.New("automation not found")
	ErrInvalidAutomationInput = errors.New("invalid automation input")
	ErrRunInProgress          = errors.New("automation run already in progress")
	ErrStatusNotOverridable   = errors.New("status running cannot be set directly")
)
