package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Metadata describes an extracted document. It is only used for logging and
// CLI output; nothing is persisted.
type Metadata struct {
	Filename  string `json:"filename,omitempty"`
	Format    string `json:"format"`
	Bytes     int    `json:"bytes"`
	Chars     int    `json:"chars"`
	Timestamp string `json:"timestamp"` // RFC3339 format
	Hash      string `json:"hash"`      // SHA256 hex digest of the extracted text
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(filename string, size int, text string) *Metadata {
	return &Metadata{
		Filename:  filename,
		Format:    string(DetectFormat(filename)),
		Bytes:     size,
		Chars:     len([]rune(text)),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(text),
	}
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}
