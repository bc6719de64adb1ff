package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"tareas/internal/task"
)

// ValidationError is a validation failure annotated with its JSON path.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationResult contains the outcome of validating a tasks file.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool
}

// ValidateFile checks the tasks file at path against the JSON Schema at
// schemaPath. When the schema is missing or unusable it falls back to
// minimal structural checks and records a warning. Reading the tasks file
// itself failing is an error; diagnostics about its content are not.
func (s *Store) ValidateFile(schemaPath string) (*ValidationResult, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read tasks file: %w", err)
	}

	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	if schemaPath != "" {
		validateWithSchema(result, data, schemaPath)
		if result.UsedSchema {
			return result, nil
		}
		result.Warnings = append(result.Warnings, "JSON Schema validation not available, using minimal checks")
	}

	validateMinimal(result, data)
	return result, nil
}

// validateMinimal performs structural checks without a schema.
func validateMinimal(result *ValidationResult, data []byte) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Err: fmt.Errorf("top-level value must be an array of tasks: %w", err),
		})
		return
	}

	for i, rec := range raw {
		path := fmt.Sprintf("[%d]", i)
		var t task.Task
		if err := json.Unmarshal(rec, &t); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{
				Path: path,
				Err:  fmt.Errorf("malformed record: %w", err),
			})
			continue
		}
		if err := validateTaskMinimal(&t); err != nil {
			result.Valid = false
			err.Path = path + err.Path
			result.Errors = append(result.Errors, err)
		}
	}
}

func validateTaskMinimal(t *task.Task) *ValidationError {
	if t.ID == "" {
		return &ValidationError{Path: ".id", Err: fmt.Errorf("missing required field")}
	}
	if t.Title == "" {
		return &ValidationError{Path: ".title", Err: fmt.Errorf("missing required field")}
	}
	if t.Priority < 1 || t.Priority > 5 {
		return &ValidationError{Path: ".priority", Err: fmt.Errorf("must be between 1 and 5, got %d", t.Priority)}
	}
	switch t.Status {
	case task.StatusTodo, task.StatusInProgress, task.StatusDone, task.StatusCancelled:
	default:
		return &ValidationError{
			Path: ".status",
			Err:  fmt.Errorf("invalid status %q, must be one of: todo, in_progress, done, cancelled", t.Status),
		}
	}
	switch t.Difficulty {
	case task.DifficultyLow, task.DifficultyMedium, task.DifficultyHigh:
	default:
		return &ValidationError{
			Path: ".difficulty",
			Err:  fmt.Errorf("invalid difficulty %q, must be one of: low, medium, high", t.Difficulty),
		}
	}
	return nil
}

// validateWithSchema attempts JSON Schema validation, setting UsedSchema
// only when the schema could be compiled.
func validateWithSchema(result *ValidationResult, data []byte, schemaPath string) {
	absPath, err := filepath.Abs(schemaPath)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("invalid schema path: %v", err))
		return
	}
	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("schema file not found: %s", absPath))
		} else {
			result.Warnings = append(result.Warnings, fmt.Sprintf("failed to read schema file: %v", err))
		}
		return
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	schema, err := compiler.Compile(absPath)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("invalid schema file: %v", err))
		return
	}

	result.UsedSchema = true

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Err: fmt.Errorf("parse tasks file: %w", err),
		})
		return
	}

	if err := schema.Validate(doc); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
	}
}

func appendSchemaErrors(result *ValidationResult, err error) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.Errors = append(result.Errors, err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	parts := strings.Split(ptr, "/")
	path := ""
	for _, part := range parts {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}
	return path
}
