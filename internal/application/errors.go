package application

import (
	"errors"
	"fmt"
	"io/fs"
)

// Sentinel errors for common conditions
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = fs.ErrExist // Matches the errors of create and rename
	ErrAlreadyOpen   = errors.New("already open in another tab")
	ErrNoActiveTab   = errors.New("no active tab")
	ErrNotPending    = errors.New("no save confirmation pending")
	ErrUnsupported   = errors.ErrUnsupported
	ErrChatBusy      = errors.New("a chat request is already running")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// SaveError represents a failed document write
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("cannot save %s: %v", e.Path, e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}
