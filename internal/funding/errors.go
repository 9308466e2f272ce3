package funding

import (
	"errors"
	"fmt"
)

// FetchKind classifies acquisition failures.
type FetchKind string

// Fetch failure kinds.
const (
	FetchNotFound           FetchKind = "not_found"
	FetchAuthDenied         FetchKind = "auth_denied"
	FetchRateLimited        FetchKind = "rate_limited"
	FetchTimeout            FetchKind = "timeout"
	FetchNetworkUnreachable FetchKind = "network_unreachable"
	FetchEmptyContent       FetchKind = "empty_content"
	FetchBadRequest         FetchKind = "bad_request"
)

// FetchError is raised by the acquisition stage only after every strategy
// has been exhausted.
type FetchError struct {
	Kind    FetchKind
	URL     string
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s (%s): %s: %v", e.URL, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("fetch %s (%s): %s", e.URL, e.Kind, e.Message)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NewFetchError constructs a FetchError without an underlying cause.
func NewFetchError(kind FetchKind, url, message string) *FetchError {
	return &FetchError{Kind: kind, URL: url, Message: message}
}

// LLMKind classifies generation-stage failures.
type LLMKind string

// Generation failure kinds.
const (
	LLMInvalidResponse LLMKind = "invalid_response"
	LLMParseFailure    LLMKind = "parse_failure"
)

// LLMError is raised when the generation service's output cannot be used.
// Raw carries the offending response text for diagnostics.
type LLMError struct {
	Kind    LLMKind
	Message string
	Raw     string
	Err     error
}

func (e *LLMError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("llm %s: %s", e.Kind, e.Message)
}

func (e *LLMError) Unwrap() error { return e.Err }

// AsFetchError unwraps err into a *FetchError if one is in its chain.
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// AsLLMError unwraps err into a *LLMError if one is in its chain.
func AsLLMError(err error) (*LLMError, bool) {
	var le *LLMError
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}
