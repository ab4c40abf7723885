package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// LocalClient implements Client for OpenAI-compatible endpoints such as Ollama.
// The schema is described in the prompt only; callers must repair the response.
type LocalClient struct {
	client *openai.Client
	config *Config
}

// NewLocalClient creates a client for the endpoint at config.BaseURL
func NewLocalClient(config *Config, opts ...option.RequestOption) *LocalClient {
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = "ollama" // Ollama ignores the key but the client requires one
	}

	base := []option.RequestOption{
		option.WithBaseURL(config.BaseURL),
		option.WithAPIKey(apiKey),
	}

	return &LocalClient{
		client: openai.NewClient(append(base, opts...)...),
		config: config,
	}
}

// Generate joins the text parts into a single user message. Binary parts are rejected.
func (c *LocalClient) Generate(ctx context.Context, req *Request) (string, error) {
	modelName := c.config.GetModel(req.Tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", req.Tier)
	}

	var sb strings.Builder
	for _, p := range req.Parts {
		if p.IsBinary() {
			return "", &APICallError{Provider: ProviderLocal, Message: p.MIMEType, Cause: ErrBinaryUnsupported}
		}
		sb.WriteString(p.Text)
		sb.WriteString("\n\n")
	}
	if req.Schema != nil {
		sb.WriteString("Return ONLY valid JSON matching this structure (no markdown, no extra text):\n\n")
		sb.WriteString(req.Schema.StructureHint())
		sb.WriteString("\n")
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(strings.TrimSpace(sb.String())))

	params := openai.ChatCompletionNewParams{
		Messages:    openai.F(messages),
		Model:       openai.F(openai.ChatModel(modelName)),
		Temperature: openai.F(float64(c.config.temperature())),
	}
	if req.JSON {
		params.ResponseFormat = openai.F[openai.ChatCompletionNewParamsResponseFormatUnion](openai.ResponseFormatJSONObjectParam{
			Type: openai.F(openai.ResponseFormatJSONObjectTypeJSONObject),
		})
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", &APICallError{Provider: ProviderLocal, Message: "chat completion failed", Cause: err}
	}
	if len(resp.Choices) == 0 {
		return "", &APICallError{Provider: ProviderLocal, Message: "no choices in response"}
	}

	return resp.Choices[0].Message.Content, nil
}

// SupportsBinary is always false; PDFs must be converted to text first.
func (c *LocalClient) SupportsBinary(string) bool {
	return false
}

// Provider returns ProviderLocal
func (c *LocalClient) Provider() Provider {
	return ProviderLocal
}

// Close is a no-op; the HTTP client holds no dedicated resources.
func (c *LocalClient) Close() error {
	return nil
}
