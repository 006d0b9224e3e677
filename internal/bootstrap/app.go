package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront-backend/internal/bundles"
	"storefront-backend/internal/commerce"
	"storefront-backend/internal/fallback"
	"storefront-backend/internal/llm"
	"storefront-backend/internal/llm/gemini"
	"storefront-backend/internal/products"
	"storefront-backend/internal/queue"
	"storefront-backend/internal/recommend"
	"storefront-backend/internal/services/health"
	"storefront-backend/internal/shared/config"
	"storefront-backend/internal/shared/httpx"
	"storefront-backend/internal/shared/server"
	"storefront-backend/internal/shared/storage/db"
	"storefront-backend/internal/shared/storage/object"
	localstore "storefront-backend/internal/shared/storage/object/local"
	s3store "storefront-backend/internal/shared/storage/object/s3"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config    config.Config
	Router    *gin.Engine
	DB        *sql.DB
	Store     object.ObjectStore
	Queue     queue.Client
	Commerce  *commerce.Client
	Generator llm.Generator
	Fallback  *fallback.ObjectSource
	Recorder  recommend.Recorder
	Events    recommend.EventLister

	RecommendService *recommend.Service
	BundleService    *bundles.Service
	ProductService   *products.Service
	HealthService    *health.Service

	RecommendHandler *recommend.Handler
	BundleHandler    *bundles.Handler
	ProductHandler   *products.Handler
	FallbackHandler  *fallback.Handler
}

// Overrides replaces outbound dependencies, mainly for tests. Zero values
// keep the configured defaults.
type Overrides struct {
	Generator    llm.Generator
	CommerceHTTP httpx.Doer
	Recorder     recommend.Recorder
}

// Build prepares dependencies from cfg and wires the router.
func Build(cfg config.Config) (*App, error) {
	return BuildWith(cfg, Overrides{})
}

// BuildWith is Build with outbound dependencies replaced by o.
func BuildWith(cfg config.Config, o Overrides) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	if strings.TrimSpace(cfg.FallbackObjectKey) == "" {
		cfg.FallbackObjectKey = "fallback/products.json"
	}
	ctx := context.Background()

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
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
	}

	buildClients(app, o)
	buildRecorder(app, o)
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           app.Config,
		Health:           app.HealthService,
		RecommendHandler: app.RecommendHandler,
		BundleHandler:    app.BundleHandler,
		ProductHandler:   app.ProductHandler,
		FallbackHandler:  app.FallbackHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Printf("bootstrap: DATABASE_URL empty; recommendation events stay in memory unless queued")
		return nil, nil
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if config.IsDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory events: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if config.IsDevLike(cfg.Env) {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			log.Printf("bootstrap: migrations failed; using in-memory events: %v", err)
			sqlDB.Close()
			return nil, nil
		}
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		store, err := s3store.New(ctx, s3store.Options{
			Region:   cfg.AWSRegion,
			Bucket:   cfg.S3Bucket,
			Prefix:   cfg.S3Prefix,
			KMSKeyID: cfg.S3KMSKeyID,
			Endpoint: cfg.S3Endpoint,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if strings.TrimSpace(cfg.RecsQueueURL) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx, cfg.RecsQueueURL, cfg.AWSRegion)
}

func buildClients(app *App, o Overrides) {
	cfg := app.Config

	app.Generator = o.Generator
	if app.Generator == nil {
		app.Generator = gemini.NewClient(gemini.Config{
			APIKey:  cfg.GeminiAPIKey,
			BaseURL: cfg.GeminiBaseURL,
			Model:   cfg.GeminiModel,
			HTTP:    httpx.NewClient(cfg.GeminiTimeout),
		})
	}

	commerceHTTP := o.CommerceHTTP
	if commerceHTTP == nil {
		commerceHTTP = httpx.NewClient(cfg.CommerceTimeout)
	}
	app.Commerce = commerce.NewClient(commerce.Config{
		StoreDomain:     cfg.CommerceStoreDomain,
		StorefrontToken: cfg.CommerceStorefrontToken,
		APIVersion:      cfg.CommerceAPIVersion,
		HTTP:            commerceHTTP,
	})
}

// buildRecorder prefers the queue, then Postgres, then memory.
func buildRecorder(app *App, o Overrides) {
	var pg *recommend.PGRecorder
	if app.DB != nil {
		pg = &recommend.PGRecorder{DB: app.DB}
		app.Events = pg
	}

	switch {
	case o.Recorder != nil:
		app.Recorder = o.Recorder
	case app.Queue != nil:
		app.Recorder = &recommend.QueueRecorder{Queue: app.Queue}
	case pg != nil:
		app.Recorder = pg
	default:
		mem := recommend.NewMemoryRecorder()
		app.Recorder = mem
		app.Events = mem
	}

	if app.Events == nil {
		if lister, ok := app.Recorder.(recommend.EventLister); ok {
			app.Events = lister
		}
	}
}

func buildServices(app *App) {
	cfg := app.Config

	app.Fallback = &fallback.ObjectSource{Store: app.Store, Key: cfg.FallbackObjectKey}
	app.RecommendService = &recommend.Service{
		Generator: app.Generator,
		Fallback:  app.Fallback,
		Recorder:  app.Recorder,
	}
	app.BundleService = &bundles.Service{Commerce: app.Commerce}
	app.ProductService = &products.Service{Catalog: app.Commerce}

	var pinger health.Pinger
	if app.DB != nil {
		pinger = app.DB
	}
	app.HealthService = health.NewService(
		pinger,
		strings.TrimSpace(cfg.GeminiAPIKey) != "",
		strings.TrimSpace(cfg.CommerceStoreDomain) != "",
	)

	app.RecommendHandler = recommend.NewHandler(app.RecommendService, app.Events)
	app.BundleHandler = bundles.NewHandler(app.BundleService)
	app.ProductHandler = products.NewHandler(app.ProductService)
	app.FallbackHandler = fallback.NewHandler(app.Fallback)
}
