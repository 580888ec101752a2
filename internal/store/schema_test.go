package store

import (
	"errors"
	"strings"
	"testing"

	"todolists/internal/mutate"
)

func TestParseDocument_Valid(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocument([]byte(`{"lists":[{"name":"Groceries","todos":[{"name":"Milk","completed":true}]},{"name":"Work"}]}`))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if len(doc.Lists) != 2 || doc.Lists[1].Todos == nil {
		t.Fatalf("unexpected document: %+v", doc)
	}
}

func TestParseDocument_SchemaViolations(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 61)
	_, err := ParseDocument([]byte(`{"lists":[{"name":"","todos":[{"name":"` + long + `"}]}],"extra":1}`))
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if len(se.Problems) < 2 {
		t.Fatalf("expected several problems, got %v", se.Problems)
	}
}

func TestParseDocument_DuplicateNames(t *testing.T) {
	t.Parallel()

	_, err := ParseDocument([]byte(`{"lists":[{"name":"A"},{"name":"A"}]}`))
	if !errors.Is(err, mutate.ErrDuplicateName) {
		t.Fatalf("expected duplicate name error, got %v", err)
	}
}

func TestParseDocument_NotJSON(t *testing.T) {
	t.Parallel()

	if _, err := ParseDocument([]byte(`lists: []`)); err == nil {
		t.Fatalf("expected decode error")
	}
}
