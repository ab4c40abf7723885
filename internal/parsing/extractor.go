// Package parsing implements the extraction adapter: resume input in, normalized
// PortfolioData out, over either model backend.
package parsing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/portfolio-builder/internal/ingestion"
	"github.com/jonathan/portfolio-builder/internal/llm"
	"github.com/jonathan/portfolio-builder/internal/logging"
	"github.com/jonathan/portfolio-builder/internal/prompts"
	"github.com/jonathan/portfolio-builder/internal/schemas"
	"github.com/jonathan/portfolio-builder/internal/types"
)

// ErrImageUnsupported is returned when an image is sent to a text-only backend
var ErrImageUnsupported = errors.New("backend cannot read image resumes")

// Extractor turns resume input into a PortfolioData record
type Extractor struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewExtractor creates an extractor backed by client
func NewExtractor(client llm.Client) *Extractor {
	return &Extractor{client: client, tier: llm.TierStandard}
}

// Extract issues one model call and returns the normalized portfolio. It does not apply
// the name gate; a missing name comes back as types.PlaceholderName for the caller to check.
func (e *Extractor) Extract(ctx context.Context, in ingestion.Input) (*types.PortfolioData, error) {
	logger := logging.Ctx(ctx)

	instruction, err := prompts.Get(prompts.ExtractionFile, prompts.KeyExtractPortfolio)
	if err != nil {
		return nil, &ExtractionError{Reason: ReasonModelCall, Message: "failed to load prompt", Cause: err}
	}
	system, _ := prompts.Get(prompts.ExtractionFile, prompts.KeySystem)

	parts, err := InputParts(e.client, in, instruction)
	if err != nil {
		if errors.Is(err, ErrImageUnsupported) {
			return nil, &ExtractionError{Reason: ReasonUnsupportedInput, Message: ImageMessage, Cause: err}
		}
		return nil, &ExtractionError{Reason: ReasonUnsupportedInput, Message: GenericMessage, Cause: err}
	}

	schema := llm.PortfolioSchema()
	text, err := e.client.Generate(ctx, &llm.Request{
		Tier:   e.tier,
		System: system,
		Parts:  parts,
		JSON:   true,
		Schema: &schema,
	})
	if err != nil {
		if IsTimeout(ctx, err) {
			return nil, &ExtractionError{Reason: ReasonTimeout, Message: "model call timed out", Cause: err}
		}
		logger.Error().Err(err).Str("provider", string(e.client.Provider())).Msg("extraction model call failed")
		return nil, &ExtractionError{Reason: ReasonModelCall, Message: "model call failed", Cause: err}
	}
	logger.Debug().Int("response_bytes", len(text)).Msg("extraction response received")

	fields, err := llm.DecodeObject(text)
	if err != nil {
		logger.Warn().Err(err).Int("response_bytes", len(text)).Msg("extraction response is not a JSON object")
		return nil, &ExtractionError{Reason: ReasonMalformedJSON, Message: "response is not valid JSON", Cause: err}
	}

	portfolio := portfolioFromFields(fields)
	portfolio.Skills = NormalizeSkills(portfolio.Skills)
	portfolio.Normalize()

	if err := schemas.ValidatePortfolio(portfolio); err != nil {
		return nil, &ExtractionError{Reason: ReasonSchema, Message: "normalized portfolio violates schema", Cause: err}
	}
	return portfolio, nil
}

// InputParts builds the request parts for in: the resume (inline text or binary) followed
// by the instruction. PDFs are converted to text for backends that cannot read them.
func InputParts(client llm.Client, in ingestion.Input, instruction string) ([]llm.Part, error) {
	var first llm.Part

	switch {
	case in.IsText():
		first = llm.TextPart(in.Text)
	default:
		data := in.Data
		mimeType := in.MIMEType
		if bytes.HasPrefix(data, []byte("data:")) {
			decoded, declared, err := ingestion.DecodeDataURL(string(data))
			if err != nil {
				return nil, err
			}
			data = decoded
			if mimeType == "" {
				mimeType = declared
			}
		}

		switch {
		case client.SupportsBinary(mimeType):
			first = llm.BlobPart(mimeType, data)
		case mimeType == ingestion.MIMEPDF:
			text, err := ingestion.PDFText(data)
			if err != nil {
				return nil, fmt.Errorf("failed to convert PDF for %s backend: %w", client.Provider(), err)
			}
			first = llm.TextPart(text)
		case strings.HasPrefix(mimeType, "image/"):
			return nil, ErrImageUnsupported
		default:
			return nil, fmt.Errorf("%s backend cannot read %s", client.Provider(), mimeType)
		}
	}

	return []llm.Part{first, llm.TextPart(instruction)}, nil
}

// IsTimeout reports whether err (or ctx) ended because a deadline passed.
func IsTimeout(ctx context.Context, err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)
}
