package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio-builder/internal/analysis"
	"github.com/jonathan/portfolio-builder/internal/config"
	"github.com/jonathan/portfolio-builder/internal/llm"
	"github.com/jonathan/portfolio-builder/internal/logging"
	"github.com/jonathan/portfolio-builder/internal/metrics"
	"github.com/jonathan/portfolio-builder/internal/parsing"
	"github.com/jonathan/portfolio-builder/internal/portfolio"
	"github.com/jonathan/portfolio-builder/internal/server"
	"github.com/jonathan/portfolio-builder/internal/server/ratelimit"
	"github.com/jonathan/portfolio-builder/internal/session"
)

var (
	servePort       int
	serveConfigPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes account, upload, session and candidate dashboard endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config and PORT)")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to YAML config file (default: ./portfolio.yaml if present)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}
	logging.Init(cfg.Logging)

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return fmt.Errorf("failed to load JWT config: %w", err)
	}
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return fmt.Errorf("failed to load password config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	gateway := portfolio.NewGateway(st.portfolios)
	users := server.NewUserService(st.users, passwordConfig)
	if cfg.Store.Driver == config.StoreDriverMemory && cfg.Store.Seed {
		if err := seedDemo(ctx, users, gateway); err != nil {
			return err
		}
	}

	blobs, err := openBlobs(ctx, cfg)
	if err != nil {
		return err
	}
	locker, closeLocker, err := openLocker(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLocker()

	client, err := llm.NewClient(ctx, llmConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer func() { _ = client.Close() }()

	collectors := metrics.New()
	coordinator := session.NewCoordinator(session.Deps{
		Extractor: parsing.NewExtractor(client),
		Analyzer:  analysis.NewAnalyzer(client),
		Gateway:   gateway,
		Blobs:     blobs,
		Locker:    locker,
		Metrics:   collectors,
	}, session.Options{
		UploadTimeout:     cfg.Session.UploadTimeout,
		LockTTL:           cfg.Redis.LockTTL,
		RequireEmailMatch: cfg.Session.RequireEmailMatch,
		Provider:          string(client.Provider()),
	})

	srv := server.New(server.Deps{
		Users:      users,
		JWT:        server.NewJWTService(jwtConfig),
		Sessions:   coordinator,
		Portfolios: gateway,
		Blobs:      blobs,
		Metrics:    collectors,
		Limiter:    ratelimit.NewLimiter(ratelimit.LoadConfig()),
		Ready:      st.ready,
	}, server.Options{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	})

	log.Info().
		Str("store", cfg.Store.Driver).
		Str("provider", string(client.Provider())).
		Bool("minio", cfg.MinIO.Endpoint != "").
		Bool("redis", cfg.Redis.Address != "").
		Msg("portfolio builder configured")
	return srv.Start(ctx)
}
