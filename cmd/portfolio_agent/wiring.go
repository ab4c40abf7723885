package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/jonathan/portfolio-builder/internal/blob"
	"github.com/jonathan/portfolio-builder/internal/config"
	"github.com/jonathan/portfolio-builder/internal/db"
	"github.com/jonathan/portfolio-builder/internal/llm"
	"github.com/jonathan/portfolio-builder/internal/lock"
	"github.com/jonathan/portfolio-builder/internal/portfolio"
	"github.com/jonathan/portfolio-builder/internal/server"
)

// stores bundles the account and portfolio stores selected by config.
type stores struct {
	users      server.DBClient
	portfolios portfolio.Store
	ready      func(ctx context.Context) error
	close      func()
}

// openStores connects to PostgreSQL and applies migrations, or builds the in-memory
// stores for the memory driver.
func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		log.Warn().Msg("using in-memory store; data is lost on restart")
		return &stores{
			users:      db.NewMemoryUsers(),
			portfolios: portfolio.NewMemoryStore(),
			close:      func() {},
		}, nil
	}

	if cfg.Store.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required for the postgres store")
	}
	database, err := db.Connect(ctx, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, err
	}
	return &stores{
		users:      database,
		portfolios: database,
		ready:      database.Ping,
		close:      database.Close,
	}, nil
}

// seedDemo registers the demo accounts and saves their portfolios. Accounts that already
// exist are left as they are.
func seedDemo(ctx context.Context, users *server.UserService, gateway *portfolio.Gateway) error {
	for _, acc := range portfolio.DemoAccounts() {
		user, err := users.SeedAccount(ctx, server.Registration{
			Name:        acc.Name,
			Email:       acc.Email,
			Password:    portfolio.DemoPassword,
			Role:        acc.Role,
			CompanyName: acc.CompanyName,
		})
		if err != nil {
			return fmt.Errorf("failed to seed %s: %w", acc.Email, err)
		}
		if acc.Portfolio == nil {
			continue
		}
		if err := gateway.Save(ctx, user.ID.String(), user.Email, acc.Portfolio, acc.Analysis); err != nil {
			return fmt.Errorf("failed to seed portfolio for %s: %w", acc.Email, err)
		}
	}
	log.Info().Int("accounts", len(portfolio.DemoAccounts())).Msg("seeded demo accounts")
	return nil
}

// openBlobs returns MinIO storage when an endpoint is configured, memory otherwise.
func openBlobs(ctx context.Context, cfg *config.Config) (blob.Storage, error) {
	if cfg.MinIO.Endpoint == "" {
		return blob.NewMemory(), nil
	}
	return blob.NewMinIO(ctx, blob.MinIOConfig{
		Endpoint:        cfg.MinIO.Endpoint,
		AccessKeyID:     cfg.MinIO.AccessKeyID,
		SecretAccessKey: cfg.MinIO.SecretAccessKey,
		Bucket:          cfg.MinIO.Bucket,
		Location:        cfg.MinIO.Location,
		UseSSL:          cfg.MinIO.UseSSL,
	})
}

// openLocker returns the Redis locker when an address is configured. The close func is
// never nil.
func openLocker(ctx context.Context, cfg *config.Config) (lock.Locker, func(), error) {
	if cfg.Redis.Address == "" {
		return lock.NewLocal(), func() {}, nil
	}
	r, err := lock.NewRedis(ctx, lock.RedisConfig{
		Address:  cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, err
	}
	return r, func() { _ = r.Close() }, nil
}

// llmConfig maps the application config onto the model client config.
func llmConfig(cfg *config.Config) *llm.Config {
	var out *llm.Config
	switch cfg.LLM.Provider {
	case config.ProviderLocal:
		out = llm.DefaultLocalConfig(cfg.LLM.LocalBaseURL, cfg.LLM.LocalModel)
	default:
		out = llm.DefaultGeminiConfig()
		out.APIKey = cfg.LLM.APIKey
	}
	for tier, model := range cfg.LLM.Models {
		out = out.WithModel(llm.ModelTier(tier), model)
	}
	return out
}
