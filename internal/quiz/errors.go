package quiz

import (
	"errors"
	"fmt"
)

var (
	ErrNoQuestions = errors.New("quiz set has no questions")
	ErrNotFound    = errors.New("not found")
)

// ValidationError reports input the client refuses to act on locally.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ErrEmptySelection blocks advancing past a question with nothing selected.
var ErrEmptySelection = &ValidationError{Field: "choice_ids", Message: "select at least one choice"}

// FetchError means quiz-set metadata or its questions could not be loaded.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// SubmissionError means the grading call failed. The answer log survives it.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submit answers: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
