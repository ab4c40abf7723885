package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jonathan/portfolio-builder/internal/analysis"
	"github.com/jonathan/portfolio-builder/internal/blob"
	"github.com/jonathan/portfolio-builder/internal/config"
	"github.com/jonathan/portfolio-builder/internal/db"
	"github.com/jonathan/portfolio-builder/internal/ingestion"
	"github.com/jonathan/portfolio-builder/internal/llm"
	"github.com/jonathan/portfolio-builder/internal/llm/llmtest"
	"github.com/jonathan/portfolio-builder/internal/lock"
	"github.com/jonathan/portfolio-builder/internal/parsing"
	"github.com/jonathan/portfolio-builder/internal/portfolio"
	"github.com/jonathan/portfolio-builder/internal/server"
	"github.com/jonathan/portfolio-builder/internal/types"
)

func TestLLMConfig(t *testing.T) {
	t.Run("gemini with override", func(t *testing.T) {
		cfg := config.Default()
		cfg.LLM.APIKey = "key"
		cfg.LLM.Models = map[string]string{"standard": "gemini-custom"}

		out := llmConfig(cfg)
		assert.Equal(t, llm.ProviderGemini, out.Provider)
		assert.Equal(t, "key", out.APIKey)
		assert.Equal(t, "gemini-custom", out.GetModel(llm.TierStandard))
		assert.Equal(t, "gemini-2.5-flash-lite", out.GetModel(llm.TierLite))
	})

	t.Run("local", func(t *testing.T) {
		cfg := config.Default()
		cfg.LLM.Provider = config.ProviderLocal
		cfg.LLM.LocalBaseURL = "http://ollama:11434/v1/"
		cfg.LLM.LocalModel = "qwen2.5"

		out := llmConfig(cfg)
		assert.Equal(t, llm.ProviderLocal, out.Provider)
		assert.Equal(t, "http://ollama:11434/v1/", out.BaseURL)
		assert.Equal(t, "qwen2.5", out.GetModel(llm.TierAdvanced))
	})
}

func TestOpenDefaults(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Store.Driver = config.StoreDriverMemory

	st, err := openStores(ctx, cfg)
	require.NoError(t, err)
	defer st.close()
	assert.IsType(t, &db.MemoryUsers{}, st.users)
	assert.IsType(t, &portfolio.MemoryStore{}, st.portfolios)
	assert.Nil(t, st.ready)

	blobs, err := openBlobs(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &blob.Memory{}, blobs)

	locker, closeLocker, err := openLocker(ctx, cfg)
	require.NoError(t, err)
	defer closeLocker()
	assert.IsType(t, &lock.Local{}, locker)
}

func TestOpenStores_PostgresRequiresURL(t *testing.T) {
	cfg := config.Default()
	cfg.Store.DatabaseURL = ""

	_, err := openStores(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestSeedDemo(t *testing.T) {
	ctx := context.Background()
	users := server.NewUserService(db.NewMemoryUsers(), &config.PasswordConfig{BcryptCost: bcrypt.MinCost})
	gateway := portfolio.NewGateway(portfolio.NewMemoryStore())

	require.NoError(t, seedDemo(ctx, users, gateway))
	// Seeding again keeps the same accounts.
	require.NoError(t, seedDemo(ctx, users, gateway))

	profiles, err := gateway.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, profiles, 2)

	employer, err := users.Login(ctx, &types.LoginRequest{Email: "employer@demo.com", Password: portfolio.DemoPassword}, types.RoleEmployer)
	require.NoError(t, err)
	assert.Equal(t, "Demo Corp", employer.CompanyName)
}

func TestListCandidates(t *testing.T) {
	ctx := context.Background()
	users := server.NewUserService(db.NewMemoryUsers(), &config.PasswordConfig{BcryptCost: bcrypt.MinCost})
	gateway := portfolio.NewGateway(portfolio.NewMemoryStore())

	var out bytes.Buffer
	require.NoError(t, listCandidates(ctx, gateway, "", &out))
	assert.Contains(t, out.String(), "No candidates found")

	require.NoError(t, seedDemo(ctx, users, gateway))

	out.Reset()
	require.NoError(t, listCandidates(ctx, gateway, "", &out))
	assert.Contains(t, out.String(), "2 candidates")
	assert.Contains(t, out.String(), "Alex Frontend <candidate@demo.com>")
	assert.Contains(t, out.String(), "Sarah Designer <sarah@demo.com>")

	out.Reset()
	require.NoError(t, listCandidates(ctx, gateway, "figma", &out))
	assert.Contains(t, out.String(), "1 candidates")
	assert.Contains(t, out.String(), "Sarah Designer")
	assert.NotContains(t, out.String(), "Alex Frontend")
}

func TestParseResume(t *testing.T) {
	fake := &llmtest.Fake{Responses: map[string]string{
		"portfolio": `{"fullName": "John Doe", "skills": [{"name": "golang", "level": 70, "category": "backend"}]}`,
		"analysis":  `{"score": 75, "summary": "Solid.", "strengths": ["Go"], "weaknesses": [], "marketOutlook": "Good.", "jobRecommendations": []}`,
	}}
	in, err := ingestion.Prepare(ingestion.TextInput("John Doe, backend engineer writing Go"))
	require.NoError(t, err)

	result, err := parseResume(context.Background(), parsing.NewExtractor(fake), analysis.NewAnalyzer(fake), in)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", result.Portfolio.FullName)
	assert.Equal(t, 75, result.Analysis.Score)

	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, result))
	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "portfolio")
	assert.Contains(t, decoded, "analysis")
}

func TestParseResume_MissingName(t *testing.T) {
	fake := &llmtest.Fake{Responses: map[string]string{
		"portfolio": `{"headline": "Engineer"}`,
		"analysis":  `{"score": 50, "summary": "ok"}`,
	}}
	in, err := ingestion.Prepare(ingestion.TextInput("an engineer without a name"))
	require.NoError(t, err)

	_, err = parseResume(context.Background(), parsing.NewExtractor(fake), analysis.NewAnalyzer(fake), in)
	var extraction *parsing.ExtractionError
	require.ErrorAs(t, err, &extraction)
	assert.Equal(t, parsing.ReasonMissingName, extraction.Reason)
}
