package store

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"todolists/internal/model"
	"todolists/internal/mutate"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed document.schema.json
var documentSchemaJSON []byte

const documentSchemaURL = "document.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func documentSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(documentSchemaURL, bytes.NewReader(documentSchemaJSON)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = compiler.Compile(documentSchemaURL)
	})
	return schema, schemaErr
}

// SchemaError lists every violation reported by the document schema.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return "invalid document: " + strings.Join(e.Problems, "; ")
}

// ParseDocument decodes an externally supplied document, checking it against
// the embedded JSON schema and the list-name uniqueness rule.
func ParseDocument(b []byte) (*model.Document, error) {
	sch, err := documentSchema()
	if err != nil {
		return nil, fmt.Errorf("compile document schema: %w", err)
	}

	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if err := sch.Validate(raw); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return nil, err
		}
		se := &SchemaError{}
		collectSchemaProblems(se, ve)
		return nil, se
	}

	doc, err := decodeDocument(b)
	if err != nil {
		return nil, err
	}
	if err := mutate.ValidateDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func collectSchemaProblems(se *SchemaError, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		loc := err.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		se.Problems = append(se.Problems, fmt.Sprintf("%s: %s", loc, err.Message))
		return
	}
	for _, c := range err.Causes {
		collectSchemaProblems(se, c)
	}
}
