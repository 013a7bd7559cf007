package domain

import (
	"errors"
	"fmt"
)

// Error codes for categorization
const (
	// Input errors
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeNotFound   = "NOT_FOUND"

	// Resolution errors
	ErrCodeNoMatch         = "NO_MATCH_FOUND"
	ErrCodeAmbiguousChoice = "AMBIGUOUS_CHOICE"

	// Infrastructure errors
	ErrCodeStoreUnavailable = "STORE_UNAVAILABLE"
	ErrCodePromptAborted    = "PROMPT_ABORTED"
	ErrCodeBrowser          = "BROWSER_ERROR"
	ErrCodeLoginFailed      = "LOGIN_FAILED"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// DomainError is a structured error for domain operations
type DomainError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for error comparison
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinel domain errors (used with errors.Is)
var (
	ErrNoMatchVal          = &DomainError{Code: ErrCodeNoMatch, Message: "no match found"}
	ErrAmbiguousChoiceVal  = &DomainError{Code: ErrCodeAmbiguousChoice, Message: "ambiguous choice"}
	ErrStoreUnavailableVal = &DomainError{Code: ErrCodeStoreUnavailable, Message: "store unavailable"}
	ErrPromptAbortedVal    = &DomainError{Code: ErrCodePromptAborted, Message: "prompt aborted"}
	ErrNotFoundVal         = &DomainError{Code: ErrCodeNotFound, Message: "not found"}
	ErrInvalidInputVal     = &DomainError{Code: ErrCodeValidation, Message: "invalid input"}
)

// NoMatchError reports that no candidate label reached the similarity
// cutoff for target. The best ratio achieved is carried for diagnostics.
func NoMatchError(target string, bestRatio float64) *DomainError {
	return &DomainError{
		Code:    ErrCodeNoMatch,
		Message: fmt.Sprintf("no element matching '%s' (best ratio %.2f)", target, bestRatio),
		Details: map[string]any{"target": target, "best_ratio": bestRatio},
		Err:     ErrNoMatchVal,
	}
}

// AmbiguousChoiceError reports that a choice question matched a rule but
// none of the candidate labels contained any configured expected value.
func AmbiguousChoiceError(question, expected string) *DomainError {
	return &DomainError{
		Code:    ErrCodeAmbiguousChoice,
		Message: fmt.Sprintf("no choice containing '%s' for question '%s'", expected, question),
		Details: map[string]any{"question": question, "expected": expected},
		Err:     ErrAmbiguousChoiceVal,
	}
}

// StoreUnavailableError wraps a persistence failure. Losing the ability to
// remember answers defeats the engine, so callers get the real error.
func StoreUnavailableError(op string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeStoreUnavailable,
		Message: fmt.Sprintf("answer store unavailable during %s", op),
		Details: map[string]any{"op": op},
		Err:     fmt.Errorf("%w: %w", ErrStoreUnavailableVal, err),
	}
}

// PromptAbortedError reports that the operator interrupted an interactive prompt
func PromptAbortedError(key string) *DomainError {
	return &DomainError{
		Code:    ErrCodePromptAborted,
		Message: fmt.Sprintf("prompt aborted for '%s'", key),
		Details: map[string]any{"key": key},
		Err:     ErrPromptAbortedVal,
	}
}

// LoginFailedError reports a failed site login
func LoginFailedError(site string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeLoginFailed,
		Message: fmt.Sprintf("login to %s failed", site),
		Details: map[string]any{"site": site},
		Err:     err,
	}
}

// BrowserError wraps a page-driving failure
func BrowserError(op string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeBrowser,
		Message: fmt.Sprintf("browser operation failed: %s", op),
		Details: map[string]any{"op": op},
		Err:     err,
	}
}

// NotFoundError creates a not found domain error
func NotFoundError(resource string, id any) *DomainError {
	return &DomainError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Details: map[string]any{"resource": resource, "id": id},
		Err:     ErrNotFoundVal,
	}
}

// ValidationError creates a validation domain error
func ValidationError(field, message string) *DomainError {
	return &DomainError{
		Code:    ErrCodeValidation,
		Message: message,
		Details: map[string]any{"field": field},
		Err:     ErrInvalidInputVal,
	}
}

// IsNoMatch checks whether err is a fuzzy-locator miss
func IsNoMatch(err error) bool {
	return errors.Is(err, ErrNoMatchVal)
}

// IsStoreUnavailable checks whether err is a persistence failure
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailableVal)
}

// IsPromptAborted checks whether err is an operator interrupt
func IsPromptAborted(err error) bool {
	return errors.Is(err, ErrPromptAbortedVal)
}

// AsDomainError converts an error to DomainError if possible
func AsDomainError(err error) (*DomainError, bool) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}

// GetErrorCode returns the error code for an error
func GetErrorCode(err error) string {
	if domainErr, ok := AsDomainError(err); ok {
		return domainErr.Code
	}
	return ErrCodeInternal
}

// BestRatio extracts the best similarity ratio from a NoMatchError, for
// callers that log locator diagnostics.
func BestRatio(err error) (float64, bool) {
	domainErr, ok := AsDomainError(err)
	if !ok || domainErr.Code != ErrCodeNoMatch {
		return 0, false
	}
	ratio, ok := domainErr.Details["best_ratio"].(float64)
	return ratio, ok
}
