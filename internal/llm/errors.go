package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyPrompt indicates Complete was called without a user prompt
	ErrEmptyPrompt = errors.New("prompt cannot be empty")

	// ErrNoChoices indicates the service answered without any content choices
	ErrNoChoices = errors.New("generation service returned no choices")

	// ErrEmptyResponse indicates the first choice carried no text
	ErrEmptyResponse = errors.New("generation service returned empty content")
)

// RequestError wraps a failed call to the generation service
type RequestError struct {
	Model string
	Err   error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("generation request to %s failed: %v", e.Model, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
