package embedding

import "fmt"

// ProviderError reports a failure to produce vectors.
type ProviderError struct {
	Provider string
	Message  string
	Cause    error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("embedding provider %s: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("embedding provider %s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}
