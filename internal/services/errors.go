package services

import "errors"

var (
	ErrExtractionFailed = errors.New("extraction failed")
	ErrPersistence      = errors.New("persistence failed")
)

// ExtractionError reports any failure talking to the extraction service or
// reading its response. Message carries the underlying cause.
type ExtractionError struct {
	Message string
	Err     error
}

func (e *ExtractionError) Error() string {
	return e.Message
}

func (e *ExtractionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrExtractionFailed}
	}
	return []error{ErrExtractionFailed, e.Err}
}

// PersistenceError reports a failure saving a file record.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}
