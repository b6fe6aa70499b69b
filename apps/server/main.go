package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	gogithub "github.com/google/go-github/v75/github"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/neogit/neogit/apps/server/internal/config"
	"github.com/neogit/neogit/apps/server/internal/deploy"
	"github.com/neogit/neogit/apps/server/internal/deploy/githubapi"
	"github.com/neogit/neogit/apps/server/internal/deploy/store"
	"github.com/neogit/neogit/apps/server/internal/gitignore"
	"github.com/neogit/neogit/apps/server/internal/handler"
	githubclient "github.com/neogit/neogit/apps/server/internal/platform/github"
	"github.com/neogit/neogit/apps/server/internal/platform/postgres"
	"github.com/neogit/neogit/apps/server/internal/platform/telemetry"
	"github.com/neogit/neogit/apps/server/internal/platform/validation"
	"github.com/neogit/neogit/apps/server/internal/readme"
	"github.com/neogit/neogit/pkg/logging"
	"github.com/neogit/neogit/schemas"
)

func main() {
	log := logging.New()

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", "error", err)
		os.Exit(1)
	}

	// --- Observability ---

	if os.Getenv("OTEL_SERVICE_NAME") == "" {
		os.Setenv("OTEL_SERVICE_NAME", "neogit-server") //nolint:errcheck
	}

	otelEnabled := os.Getenv("OTEL_ENABLED") == "true"
	ctx := context.Background()
	tel, err := telemetry.New(ctx, otelEnabled)
	if err != nil {
		log.Error("telemetry init failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			log.Error("telemetry shutdown failed", "error", err)
		}
	}()

	// --- Run store ---

	var runs deploy.RunStore
	switch cfg.Store.Backend {
	case "postgres":
		migrations, err := store.Migrations()
		if err != nil {
			log.Error("load migrations failed", "error", err)
			os.Exit(1)
		}
		pool, err := postgres.New(ctx, cfg.Store.PostgresURL, migrations)
		if err != nil {
			log.Error("postgres init failed", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		runs = store.NewPGRunStore(pool)
	default:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Store.RedisAddr})
		defer rdb.Close()
		runs = store.NewRedisRunStore(rdb)
	}

	// --- GitHub client ---

	var gh *gogithub.Client
	if cfg.GitHub.Token != "" {
		gh = githubclient.NewTokenClient(cfg.GitHub.Token, cfg.GitHub.BaseURL)
	} else {
		gh, err = githubclient.NewAppClient(
			cfg.GitHub.AppID, cfg.GitHub.InstallationID,
			cfg.GitHub.PrivateKeyPath, cfg.GitHub.BaseURL)
		if err != nil {
			log.Error("github app client init failed", "error", err)
			os.Exit(1)
		}
	}

	// --- Services ---

	deployer := deploy.NewDeployer(
		githubapi.New(gh, cfg.GitHub.Owner),
		runs,
		logging.Component(log, "deploy"),
	)

	var provider readme.Provider
	providers := []string{readme.TemplateProviderName}
	if cfg.Anthropic.APIKey != "" {
		provider = readme.NewAnthropicProvider(cfg.Anthropic.APIKey)
		providers = []string{provider.Name(), readme.TemplateProviderName}
	}
	readmes := readme.NewGenerator(provider, logging.Component(log, "readme"))
	gitignores := gitignore.NewGenerator(logging.Component(log, "gitignore"))

	// --- HTTP ---

	router := gin.New()

	validator, err := validation.New(schemas.OpenAPISpec)
	if err != nil {
		log.Error("openapi validation middleware init failed", "error", err)
		os.Exit(1)
	}

	router.Use(gin.Recovery(), otelgin.Middleware("neogit-server"), validator)
	handler.RegisterRoutes(router, handler.Options{
		Deployer:   deployer,
		Readmes:    readmes,
		Gitignores: gitignores,
		Providers:  providers,
		AuthToken:  cfg.AuthToken,
	}, log)

	log.Info("starting neogit", "port", cfg.Port, "store", cfg.Store.Backend)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}
