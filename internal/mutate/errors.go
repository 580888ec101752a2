package mutate

import (
	"errors"
	"fmt"
)

// ErrInvalidLength is the kind shared by every length validation failure.
var ErrInvalidLength = errors.New("invalid length")

var (
	ErrInvalidListNameLength = fmt.Errorf("%w: List name must be within 1 and 100 characters", ErrInvalidLength)
	ErrInvalidTodoNameLength = fmt.Errorf("%w: Your todo must be between 1 and 60 characters", ErrInvalidLength)
	ErrDuplicateName         = errors.New("List name must be unique")
)

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func notFound(kind string, index int) error {
	return NotFoundError{Kind: kind, ID: fmt.Sprintf("%d", index)}
}

// IsValidation reports whether err is a user-correctable validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidLength) || errors.Is(err, ErrDuplicateName)
}

// IsNotFound reports whether err is an out-of-range list or todo index.
func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

// Message returns the user-facing text for a validation error.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrInvalidListNameLength):
		return "List name must be within 1 and 100 characters"
	case errors.Is(err, ErrInvalidTodoNameLength):
		return "Your todo must be between 1 and 60 characters"
	case errors.Is(err, ErrDuplicateName):
		return "List name must be unique"
	case err == nil:
		return ""
	default:
		return err.Error()
	}
}

// DocumentError locates a validation failure inside a whole document.
// TodoIndex is -1 when the list name itself is invalid.
type DocumentError struct {
	ListIndex int
	TodoIndex int
	Err       error
}

func (e *DocumentError) Error() string {
	if e.TodoIndex < 0 {
		return fmt.Sprintf("lists[%d]: %s", e.ListIndex, Message(e.Err))
	}
	return fmt.Sprintf("lists[%d].todos[%d]: %s", e.ListIndex, e.TodoIndex, Message(e.Err))
}

func (e *DocumentError) Unwrap() error { return e.Err }
