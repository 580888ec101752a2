package cli

import (
	"fmt"

	"todolists/internal/store"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func (e notFoundError) Unwrap() error {
	if e.kind == "session" {
		return store.ErrSessionNotFound
	}
	return nil
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}
