package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"quickai-backend/internal/creations"
	"quickai-backend/internal/entitlement"
	"quickai-backend/internal/generation"
	"quickai-backend/internal/imagegen"
	"quickai-backend/internal/llm"
	openaillm "quickai-backend/internal/llm/openai"
	"quickai-backend/internal/shared/config"
	"quickai-backend/internal/shared/server"
	"quickai-backend/internal/shared/storage/db"
	"quickai-backend/internal/shared/storage/object"
	localstore "quickai-backend/internal/shared/storage/object/local"
	s3store "quickai-backend/internal/shared/storage/object/s3"
)

// App holds the wired application.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	Entitlements *entitlement.Resolver
	Ledger       creations.Repo

	GenerationService *generation.Service
	CreationsService  *creations.Service
	GenerationHandler *generation.Handler
	CreationsHandler  *creations.Handler
}

// Build wires dependencies and routes. With no DATABASE_URL in a
// dev-like environment, everything runs against in-memory stores so the
// server starts with zero infrastructure.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, localDir, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            cfg,
		GenerationHandler: app.GenerationHandler,
		CreationsHandler:  app.CreationsHandler,
		LocalFilesDir:     localDir,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, string, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		store, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
		if err != nil {
			return nil, "", err
		}
		return store, "", nil
	default:
		return localstore.New(cfg.LocalStoreDir, cfg.PublicBaseURL), cfg.LocalStoreDir, nil
	}
}

func buildServices(app *App) error {
	if app.DB != nil {
		app.Entitlements = entitlement.NewResolverWithStore(entitlement.NewPGStore(app.DB))
		app.Ledger = &creations.PGRepo{DB: app.DB}
	} else {
		app.Entitlements = entitlement.NewResolver()
		app.Ledger = creations.NewMemoryRepo()
	}

	llmClient := llm.Client(llm.PlaceholderClient{})
	if strings.TrimSpace(app.Config.LLMAPIKey) != "" {
		client, err := openaillm.NewClient(app.Config.LLMAPIKey, app.Config.LLMModel, app.Config.LLMBaseURL)
		if err != nil {
			return err
		}
		llmClient = client
	} else {
		log.Printf("bootstrap: LLM_API_KEY empty; text generation disabled")
	}

	imageBackend := imagegen.Backend(imagegen.PlaceholderBackend{})
	if strings.TrimSpace(app.Config.ImageAPIKey) != "" {
		backend, err := imagegen.NewClipDropBackend(app.Config.ImageAPIKey, app.Config.ImageBaseURL)
		if err != nil {
			return err
		}
		imageBackend = backend
	} else {
		log.Printf("bootstrap: IMAGE_API_KEY empty; image generation disabled")
	}

	app.GenerationService = &generation.Service{
		Entitlements:   app.Entitlements,
		LLM:            llmClient,
		Images:         imageBackend,
		Objects:        app.Store,
		Ledger:         app.Ledger,
		BackendTimeout: app.Config.BackendTimeout,
	}
	app.CreationsService = creations.NewService(app.Ledger)

	app.GenerationHandler = generation.NewHandler(app.GenerationService)
	app.CreationsHandler = creations.NewHandler(app.CreationsService)
	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
