package llm

import "fmt"

// APICallError represents an error from a remote embedding API
type APICallError struct {
	Provider   Provider
	StatusCode int // 0 when no HTTP response was received
	Message    string
	Cause      error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s API call failed: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s API call failed: %s", e.Provider, e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// Retryable reports whether the call may succeed if repeated.
func (e *APICallError) Retryable() bool {
	return e.StatusCode == 0 || e.StatusCode == 429 || e.StatusCode >= 500
}
