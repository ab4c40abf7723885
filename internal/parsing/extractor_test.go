package parsing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/portfolio-builder/internal/ingestion"
	"github.com/jonathan/portfolio-builder/internal/ingestion/ingestiontest"
	"github.com/jonathan/portfolio-builder/internal/llm"
	"github.com/jonathan/portfolio-builder/internal/llm/llmtest"
	"github.com/jonathan/portfolio-builder/internal/types"
)

const johnDoeResponse = "```json\n" + `{
  "fullName": "John Doe",
  "headline": "Software Engineer",
  "about": "Engineer with 5 years of React experience.",
  "skills": [{"name": "react.js", "level": 85.6, "category": "frontend"}, {"name": "Leadership", "level": "70", "category": "people"}],
  "experience": "none"
}` + "\n```"

func fakeWith(portfolio string) *llmtest.Fake {
	return &llmtest.Fake{Responses: map[string]string{"portfolio": portfolio}}
}

func TestExtract_PlainText(t *testing.T) {
	client := fakeWith(johnDoeResponse)
	extractor := NewExtractor(client)

	p, err := extractor.Extract(context.Background(), ingestion.TextInput("John Doe, Software Engineer, 5 years React experience"))
	require.NoError(t, err)

	assert.Equal(t, "John Doe", p.FullName)
	assert.True(t, p.HasSkill("React"))
	require.Len(t, p.Skills, 2)
	assert.Equal(t, 86, p.Skills[0].Level)
	assert.Equal(t, types.CategoryFrontend, p.Skills[0].Category)
	assert.Equal(t, 70, p.Skills[1].Level)
	assert.Equal(t, types.CategoryOther, p.Skills[1].Category)

	assert.NotNil(t, p.Experience)
	assert.Empty(t, p.Experience)
	assert.NotNil(t, p.Education)
	assert.NotNil(t, p.Projects)
	assert.NoError(t, CheckName(p))
}

func TestExtract_RequestShape(t *testing.T) {
	client := fakeWith(johnDoeResponse)

	_, err := NewExtractor(client).Extract(context.Background(), ingestion.TextInput("John Doe"))
	require.NoError(t, err)

	reqs := client.Requests()
	require.Len(t, reqs, 1)
	req := reqs[0]
	assert.True(t, req.JSON)
	require.NotNil(t, req.Schema)
	assert.Equal(t, "portfolio", req.Schema.Name)
	require.Len(t, req.Parts, 2)
	assert.Equal(t, "John Doe", req.Parts[0].Text)
	assert.Contains(t, req.Parts[1].Text, "portfolio schema")
}

func TestExtract_MissingNameBecomesPlaceholder(t *testing.T) {
	client := fakeWith(`{"headline": "Engineer"}`)

	p, err := NewExtractor(client).Extract(context.Background(), ingestion.TextInput("some text"))
	require.NoError(t, err)
	assert.Equal(t, types.PlaceholderName, p.FullName)

	var extractionErr *ExtractionError
	require.ErrorAs(t, CheckName(p), &extractionErr)
	assert.Equal(t, ReasonMissingName, extractionErr.Reason)
}

func TestExtract_Failures(t *testing.T) {
	tests := []struct {
		name   string
		client *llmtest.Fake
		reason Reason
	}{
		{
			name:   "model error",
			client: &llmtest.Fake{Errors: map[string]error{"portfolio": errors.New("connection refused")}},
			reason: ReasonModelCall,
		},
		{
			name:   "not json",
			client: fakeWith("I'm sorry, I can't read that resume."),
			reason: ReasonMalformedJSON,
		},
		{
			name:   "broken json",
			client: fakeWith(`{"fullName": "John" "headline": "x"}`),
			reason: ReasonMalformedJSON,
		},
		{
			name:   "deadline",
			client: &llmtest.Fake{Errors: map[string]error{"portfolio": &llm.APICallError{Provider: llm.ProviderLocal, Message: "chat", Cause: context.DeadlineExceeded}}},
			reason: ReasonTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewExtractor(tt.client).Extract(context.Background(), ingestion.TextInput("John Doe"))
			require.Error(t, err)

			var extractionErr *ExtractionError
			require.ErrorAs(t, err, &extractionErr)
			assert.Equal(t, tt.reason, extractionErr.Reason)
			assert.Equal(t, GenericMessage, extractionErr.UserMessage())
		})
	}
}

func TestExtract_ContextTimeout(t *testing.T) {
	client := &llmtest.Fake{Delay: time.Second}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := NewExtractor(client).Extract(ctx, ingestion.TextInput("John Doe"))

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, ReasonTimeout, extractionErr.Reason)
}

func TestExtract_ImageOnTextBackend(t *testing.T) {
	client := fakeWith(johnDoeResponse)
	in := ingestion.BinaryInput([]byte("\x89PNG"), "image/png", "cv.png")

	_, err := NewExtractor(client).Extract(context.Background(), in)

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, ReasonUnsupportedInput, extractionErr.Reason)
	assert.Equal(t, ImageMessage, extractionErr.UserMessage())
	assert.Zero(t, client.Calls())
}

func TestInputParts(t *testing.T) {
	cloud := &llmtest.Fake{Binary: true}

	parts, err := InputParts(cloud, ingestion.BinaryInput([]byte("%PDF-1.4"), ingestion.MIMEPDF, "cv.pdf"), "extract")
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.True(t, parts[0].IsBinary())
	assert.Equal(t, ingestion.MIMEPDF, parts[0].MIMEType)
	assert.Equal(t, "extract", parts[1].Text)

	// data URL payloads are stripped before transmission
	dataURL := []byte("data:image/png;base64,iVBORw==")
	parts, err = InputParts(cloud, ingestion.BinaryInput(dataURL, "image/png", ""), "extract")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, parts[0].Data)

	// text-only backends need a readable PDF
	local := &llmtest.Fake{}
	_, err = InputParts(local, ingestion.BinaryInput([]byte("%PDF-broken"), ingestion.MIMEPDF, "cv.pdf"), "extract")
	assert.Error(t, err)
}

func TestInputParts_LocalClientReadsPDFText(t *testing.T) {
	local := llm.NewLocalClient(llm.DefaultLocalConfig("http://127.0.0.1:1/", ""))
	pdf := ingestiontest.PDF("John Doe", "Software Engineer")

	parts, err := InputParts(local, ingestion.BinaryInput(pdf, ingestion.MIMEPDF, "cv.pdf"), "extract")
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.False(t, parts[0].IsBinary())
	assert.Contains(t, parts[0].Text, "John Doe")
	assert.Contains(t, parts[0].Text, "Software Engineer")
	assert.Equal(t, "extract", parts[1].Text)
}

func TestExtract_PDFOnTextOnlyBackend(t *testing.T) {
	var sent string
	client := &llmtest.Fake{Handler: func(_ context.Context, req *llm.Request) (string, error) {
		sent = req.Parts[0].Text
		return johnDoeResponse, nil
	}}

	in, err := ingestion.Prepare(ingestion.BinaryInput(ingestiontest.PDF("John Doe", "Software Engineer"), ingestion.MIMEPDF, "cv.pdf"))
	require.NoError(t, err)

	p, err := NewExtractor(client).Extract(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", p.FullName)
	assert.Contains(t, sent, "John Doe")
	assert.NotContains(t, sent, "%PDF")
}
