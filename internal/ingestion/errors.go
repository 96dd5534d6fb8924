package ingestion

import "fmt"

// ExtractionError reports a document that could not be decoded.
type ExtractionError struct {
	Filename string
	Format   string
	Message  string
	Cause    error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to extract %s text from %s: %s: %v", e.Format, e.Filename, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to extract %s text from %s: %s", e.Format, e.Filename, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
