package mutate

import (
	"strings"
	"unicode/utf8"

	"todolists/internal/model"
)

const (
	MaxListNameLen = 100
	MaxTodoNameLen = 60
)

// nameCutset is ASCII whitespace plus NUL. Non-ASCII spaces such as U+00A0
// are part of the name.
const nameCutset = " \t\n\v\f\r\x00"

// TrimName strips the leading and trailing characters that names never keep.
func TrimName(s string) string {
	return strings.Trim(s, nameCutset)
}

// ValidateListName checks length and exact-match uniqueness against existing.
// Callers trim candidate with TrimName first.
func ValidateListName(candidate string, existing []string) error {
	n := utf8.RuneCountInString(candidate)
	if n < 1 || n > MaxListNameLen {
		return ErrInvalidListNameLength
	}
	for _, name := range existing {
		if name == candidate {
			return ErrDuplicateName
		}
	}
	return nil
}

func ValidateTodoName(candidate string) error {
	n := utf8.RuneCountInString(candidate)
	if n < 1 || n > MaxTodoNameLen {
		return ErrInvalidTodoNameLength
	}
	return nil
}

// ValidateDocument checks every list and todo name, including list-name
// uniqueness. Used when documents enter from outside the lifecycle operations.
func ValidateDocument(doc *model.Document) error {
	if doc == nil {
		return nil
	}
	seen := make([]string, 0, len(doc.Lists))
	for i, l := range doc.Lists {
		if err := ValidateListName(l.Name, seen); err != nil {
			return &DocumentError{ListIndex: i, TodoIndex: -1, Err: err}
		}
		seen = append(seen, l.Name)
		for j, t := range l.Todos {
			if err := ValidateTodoName(t.Name); err != nil {
				return &DocumentError{ListIndex: i, TodoIndex: j, Err: err}
			}
		}
	}
	return nil
}
