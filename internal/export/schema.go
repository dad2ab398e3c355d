package export

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed posts.schema.json
var snapshotSchema []byte

// ErrSnapshotInvalid is the sentinel behind every schema failure.
var ErrSnapshotInvalid = errors.New("export: snapshot does not match schema")

// Issue is a single schema violation.
type Issue struct {
	Location string
	Message  string
}

// SchemaError lists the schema violations of a snapshot document.
type SchemaError struct {
	Issues []Issue
	Cause  error
}

func (e *SchemaError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrSnapshotInvalid.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := issue.Location
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *SchemaError) Unwrap() error { return ErrSnapshotInvalid }

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("posts.schema.json", bytes.NewReader(snapshotSchema)); err != nil {
		return nil, err
	}
	return compiler.Compile("posts.schema.json")
})

// Validate checks an encoded snapshot against the embedded schema.
func Validate(document []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("export: compile schema: %w", err)
	}

	var payload any
	if err := json.Unmarshal(document, &payload); err != nil {
		return &SchemaError{Cause: err, Issues: []Issue{{Message: err.Error()}}}
	}
	if err := schema.Validate(payload); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return &SchemaError{Issues: collectIssues(validationErr), Cause: err}
		}
		return &SchemaError{Cause: err, Issues: []Issue{{Message: err.Error()}}}
	}
	return nil
}

func collectIssues(err *jsonschema.ValidationError) []Issue {
	var issues []Issue
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
