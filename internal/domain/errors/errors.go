package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is checks across package boundaries.
var (
	ErrInvalid             = errors.New("invalid")
	ErrMalformedDocument   = errors.New("malformed document")
	ErrMissingIdentifier   = errors.New("missing identifier")
	ErrDuplicateIdentifier = errors.New("duplicate identifier")
)

// MalformedDocumentError marks a source file without a recognizable
// front matter block.
type MalformedDocumentError struct {
	Path   string
	Reason string
}

func (e MalformedDocumentError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: no front matter block", e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

func (e MalformedDocumentError) Is(target error) bool {
	return target == ErrMalformedDocument
}

// MissingIdentifierError marks a filename that does not encode a
// parseable date and slug.
type MissingIdentifierError struct {
	Path string
}

func (e MissingIdentifierError) Error() string {
	return fmt.Sprintf("%s: filename does not encode a date and slug (want YYYY-MM-DD-slug.md)", e.Path)
}

func (e MissingIdentifierError) Is(target error) bool {
	return target == ErrMissingIdentifier
}

// DuplicateIdentifierError marks two documents resolving to the same
// identifier.
type DuplicateIdentifierError struct {
	ID        string
	Path      string
	OtherPath string
}

func (e DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("duplicate identifier %q: %s conflicts with %s", e.ID, e.Path, e.OtherPath)
}

func (e DuplicateIdentifierError) Is(target error) bool {
	return target == ErrDuplicateIdentifier
}

type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError aggregates per-field failures for one source document.
type ValidationError struct {
	Path  string
	Items []FieldError
}

func (e ValidationError) Error() string {
	if len(e.Items) == 0 {
		return "validation failed"
	}

	var b strings.Builder
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	b.WriteString("validation failed:\n")
	for _, item := range e.Items {
		b.WriteString(" - ")
		b.WriteString(item.Error())
		b.WriteString("\n")
	}
	return b.String()
}

func (e *ValidationError) Add(field, msg string) {
	e.Items = append(e.Items, FieldError{
		Field:   field,
		Message: msg,
	})
}

func (e ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

func (e ValidationError) HasAny() bool {
	return len(e.Items) > 0
}

// HasField reports whether the error mentions the given field.
func (e ValidationError) HasField(field string) bool {
	for _, item := range e.Items {
		if item.Field == field {
			return true
		}
	}
	return false
}
