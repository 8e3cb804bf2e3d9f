package task

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "taskr://tasks.schema.json"

// Schema is the JSON Schema for the task file. It accepts the envelope
// written by Save as well as a bare array of tasks.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "taskr task file",
  "oneOf": [
    { "$ref": "#/$defs/tasks" },
    {
      "type": "object",
      "additionalProperties": false,
      "required": ["tasks"],
      "properties": {
        "next_id": { "type": "integer", "minimum": 1 },
        "tasks": { "$ref": "#/$defs/tasks" }
      }
    }
  ],
  "$defs": {
    "tasks": {
      "type": "array",
      "items": { "$ref": "#/$defs/task" }
    },
    "task": {
      "type": "object",
      "additionalProperties": false,
      "required": ["id", "title", "priority", "done"],
      "properties": {
        "id": { "type": "integer", "minimum": 1 },
        "title": { "type": "string", "minLength": 1 },
        "description": { "type": ["string", "null"] },
        "priority": { "type": "string", "enum": ["low", "medium", "high"] },
        "due_date": {
          "anyOf": [
            { "type": "string", "format": "date" },
            { "type": "null" }
          ]
        },
        "done": { "type": "boolean" }
      }
    }
  }
}
`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func compiled() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		if err := compiler.AddResource(schemaURL, strings.NewReader(Schema)); err != nil {
			schemaErr = fmt.Errorf("add task schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile task schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// Validate checks a decoded JSON document (as produced by json.Unmarshal into
// an any) against Schema. It returns one ValidationError per violated leaf.
func Validate(doc any) []error {
	schema, err := compiled()
	if err != nil {
		return []error{err}
	}
	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return []error{err}
		}
		var errs []error
		collectSchemaErrors(&errs, ve)
		return errs
	}
	return nil
}

func collectSchemaErrors(errs *[]error, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		*errs = append(*errs, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(errs, cause)
	}
}

// jsonPointerToPath turns "/tasks/0/priority" into "tasks[0].priority".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
