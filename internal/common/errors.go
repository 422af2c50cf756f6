// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// File handling errors.
	ErrFileNotFound    = errors.New("file not found")
	ErrUnreadableFile  = errors.New("unreadable file")
	ErrUnsupportedType = errors.New("unsupported file type")

	// Pipeline errors.
	ErrNoRecords      = errors.New("no records to process")
	ErrEmptyReport    = errors.New("report contains no detail rows")
	ErrTemplateSheet  = errors.New("template worksheet not found")
	ErrInvalidPeriod  = errors.New("invalid pay period")
	ErrUnknownRuleSet = errors.New("unknown rule set")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
