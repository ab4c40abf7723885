package ingestion

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetadata(t *testing.T) {
	text := NewMetadata(TextInput("John Doe"))
	assert.Equal(t, KindText, text.Kind)
	assert.Equal(t, 8, text.Size)
	assert.Len(t, text.Hash, 64)
	assert.NotEmpty(t, text.Timestamp)

	bin := NewMetadata(BinaryInput(pdfBytes, MIMEPDF, "resume.pdf"))
	assert.Equal(t, "resume.pdf", bin.Filename)
	assert.Equal(t, len(pdfBytes), bin.Size)
}

func TestNewMetadata_HashStable(t *testing.T) {
	a := NewMetadata(TextInput("Content 1"))
	b := NewMetadata(TextInput("Content 1"))
	c := NewMetadata(TextInput("Content 2"))

	assert.Equal(t, a.Hash, b.Hash)
	assert.NotEqual(t, a.Hash, c.Hash)
}

func TestMetadata_LogObject(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	logger.Info().Object("upload", NewMetadata(BinaryInput(pdfBytes, MIMEPDF, "resume.pdf"))).Msg("upload started")

	var line struct {
		Upload map[string]any `json:"upload"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, string(KindBinary), line.Upload["kind"])
	assert.Equal(t, MIMEPDF, line.Upload["mime_type"])
	assert.Equal(t, "resume.pdf", line.Upload["filename"])
	assert.EqualValues(t, len(pdfBytes), line.Upload["bytes"])
	assert.Len(t, line.Upload["sha256"], 64)
	assert.NotContains(t, buf.String(), "%PDF", "content is never logged")

	buf.Reset()
	logger.Info().Object("upload", NewMetadata(TextInput("John Doe"))).Msg("upload started")
	assert.NotContains(t, buf.String(), "filename")
	assert.NotContains(t, buf.String(), "John Doe")
}
