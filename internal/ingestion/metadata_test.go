package ingestion

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetadata(t *testing.T) {
	meta := NewMetadata("cv.docx", 2048, "Résumé")

	assert.Equal(t, "cv.docx", meta.Filename)
	assert.Equal(t, "docx", meta.Format)
	assert.Equal(t, 2048, meta.Bytes)
	assert.Equal(t, 6, meta.Chars)
	assert.Len(t, meta.Hash, 64)
}

func TestMetadata_ToJSON(t *testing.T) {
	meta := &Metadata{Filename: "cv.txt", Format: "text", Timestamp: "2024-01-01T00:00:00Z", Hash: "abcd1234"}

	data, err := meta.ToJSON()
	require.NoError(t, err)

	var decoded Metadata
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, *meta, decoded)
}

func TestComputeHash(t *testing.T) {
	assert.Equal(t, computeHash("same"), computeHash("same"))
	assert.NotEqual(t, computeHash("one"), computeHash("two"))
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", computeHash(""))
}
