package store

import "fmt"

// NotFoundError reports a survey/question/response identifier that does not
// exist in storage.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ValidationError reports a malformed snapshot or an invalid submission.
// QuestionID names the offending question when the violation is tied to one,
// so the caller can highlight it; it is 0 for structural violations.
type ValidationError struct {
	QuestionID int64
	Err        error
}

func (e *ValidationError) Error() string {
	if e.QuestionID != 0 {
		return fmt.Sprintf("question %d: %s", e.QuestionID, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// StorageError wraps a backend failure. Any StorageError aborts the whole
// unit of work it occurred in.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
