package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"agreements-backend/internal/agreements"
	"agreements-backend/internal/extract"
	"agreements-backend/internal/extract/llamacloud"
	"agreements-backend/internal/queue"
	"agreements-backend/internal/shared/config"
	"agreements-backend/internal/shared/secrets"
	"agreements-backend/internal/shared/server"
	"agreements-backend/internal/shared/storage/db"
	"agreements-backend/internal/shared/storage/object"
	localstore "agreements-backend/internal/shared/storage/object/local"
	s3store "agreements-backend/internal/shared/storage/object/s3"
)

// App holds shared dependencies.
type App struct {
	Config            config.Config
	Router            *gin.Engine
	DB                *sql.DB
	Store             object.Store
	Queue             queue.Client
	Secrets           secrets.Provider
	AgreementsRepo    agreements.AgreementsRepo
	AgreementsService *agreements.Service
	AgreementsHandler *agreements.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	provider, err := buildSecrets(ctx, &cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:  cfg,
		DB:      sqlDB,
		Store:   store,
		Queue:   queueClient,
		Secrets: provider,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            app.Config,
		AgreementsHandler: app.AgreementsHandler,
	})

	return app, nil
}

// buildSecrets fills config gaps from the application secret when one is
// configured. Env values win over secret values.
func buildSecrets(ctx context.Context, cfg *config.Config) (secrets.Provider, error) {
	if strings.TrimSpace(cfg.AppSecretName) == "" {
		return nil, nil
	}
	manager, err := secrets.New(ctx, cfg.AWSRegion, cfg.AppSecretName)
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		if val, err := manager.Value(ctx, "DATABASE_URL"); err == nil {
			cfg.DatabaseURL = val
		} else {
			log.Printf("bootstrap: DATABASE_URL not in secret: %v", err)
		}
	}
	if cfg.ExtractAPIKey == "" {
		if val, err := manager.Value(ctx, "LLAMA_PARSE_API_KEY"); err == nil {
			cfg.ExtractAPIKey = val
		} else {
			log.Printf("bootstrap: LLAMA_PARSE_API_KEY not in secret: %v", err)
		}
	}
	return manager, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		opts := db.OptionsFromEnv(db.DefaultLambdaOptions())
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	} else {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
		if err == nil {
			if migErr := db.RunMigrations(ctx, sqlDB); migErr != nil {
				return nil, migErr
			}
		}
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.PDFBucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires PDF_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.PDFBucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if strings.TrimSpace(cfg.QueueURL) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) error {
	var repo agreements.AgreementsRepo
	if app.DB != nil {
		repo = &agreements.PGRepo{DB: app.DB}
	} else {
		repo = agreements.NewMemoryRepo()
	}

	backend := agreements.ExtractionBackend(unconfiguredBackend{})
	if app.Config.ExtractProvider == "llamacloud" && app.Config.ExtractAPIKey != "" {
		client, err := llamacloud.NewClient(app.Config.ExtractAPIKey, app.Config.ExtractModel)
		if err != nil {
			return err
		}
		backend = client
	}

	svc := &agreements.Service{
		Repo:      repo,
		Store:     app.Store,
		Extractor: agreements.NewExtractor(backend, extract.PDFText{}),
		JobQueue:  app.Queue,
	}

	app.AgreementsRepo = repo
	app.AgreementsService = svc
	app.AgreementsHandler = agreements.NewHandler(svc)
	return nil
}

// unconfiguredBackend stands in when no extraction provider is configured.
// Reads and user saves still work; extraction runs fail fast.
type unconfiguredBackend struct{}

func (unconfiguredBackend) Extract(ctx context.Context, shape agreements.FieldShape, pageRange string, document []byte) (map[string]any, error) {
	return nil, errors.New("extraction backend not configured")
}
