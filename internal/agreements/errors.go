package agreements

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownDocumentTitle indicates title text with no registered plan or
	// schema. Fatal for the current document; requires a catalog update.
	ErrUnknownDocumentTitle = errors.New("unknown document title")

	// ErrTitleDetectionFailed indicates a document with no extractable text on
	// its first page.
	ErrTitleDetectionFailed = errors.New("title detection failed: no extractable text")

	// ErrUnknownInputFormat indicates Normalize was called without a
	// recognized format tag. This is an integration error, not bad data.
	ErrUnknownInputFormat = errors.New("unknown input format")

	// ErrNotFound indicates no agreement exists for the requested path.
	ErrNotFound = errors.New("agreement not found")
)

// StepError reports an extraction backend failure for one plan step. A step
// failure aborts the whole run; nothing partial is persisted.
type StepError struct {
	Title     DocumentTitle
	Step      int
	PageRange string
	Cause     error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("extraction step %d (pages %s) for %q failed: %v", e.Step, e.PageRange, e.Title, e.Cause)
}

func (e *StepError) Unwrap() error { return e.Cause }

// FieldError describes a single hard validation failure. Validation collects
// every field error before failing so callers can display all problems at once.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidationError carries the full set of field errors from one validation
// pass.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		return "validation failed: " + e.Fields[0].Error()
	}
	return fmt.Sprintf("validation failed: %d field errors", len(e.Fields))
}
