package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"matchscore-backend/internal/account"
	googleauth "matchscore-backend/internal/auth"
	"matchscore-backend/internal/documents"
	"matchscore-backend/internal/llm"
	openai "matchscore-backend/internal/llm/openai"
	"matchscore-backend/internal/queue"
	"matchscore-backend/internal/scans"
	"matchscore-backend/internal/shared/config"
	"matchscore-backend/internal/shared/server"
	"matchscore-backend/internal/shared/storage/db"
	"matchscore-backend/internal/shared/storage/object"
	localstore "matchscore-backend/internal/shared/storage/object/local"
	s3store "matchscore-backend/internal/shared/storage/object/s3"
	"matchscore-backend/internal/usage"
	"matchscore-backend/internal/users"
)

// App holds the shared dependency graph for both the API server and
// the queue worker.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Queue  queue.Client

	DocumentsRepo documents.DocumentsRepo
	ScansRepo     scans.Repo
	UsersRepo     users.Repo

	DocumentsService *documents.Service
	UsageService     *usage.Service
	ScansService     *scans.Service
	ScanProcessor    ScanProcessor
	UsersService     *users.Service
	AccountService   *account.Service

	DocumentsHandler *documents.Handler
	ScanHandler      *scans.Handler
	UsageHandler     *usage.Handler
	UsersHandler     *users.Handler
	AccountHandler   *account.Handler
	GoogleAuth       *googleauth.GoogleService
}

// ScanProcessor allows callers to override scan processing for tests.
type ScanProcessor interface {
	Process(ctx context.Context, scanID string) error
}

// Build prepares shared dependencies and the HTTP router.
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

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		DocumentHandler: app.DocumentsHandler,
		ScanHandler:     app.ScanHandler,
		UsageHandler:    app.UsageHandler,
		UserHandler:     app.UsersHandler,
		AccountHandler:  app.AccountHandler,
		GoogleAuth:      app.GoogleAuth,
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
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if strings.TrimSpace(cfg.QueueURL) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx, cfg.QueueURL)
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
	var docRepo documents.DocumentsRepo
	var scanRepo scans.Repo
	var userRepo users.Repo

	if app.DB != nil {
		docRepo = &documents.PGRepo{DB: app.DB}
		scanRepo = &scans.PGRepo{DB: app.DB}
		userRepo = &users.PGRepo{DB: app.DB}
	} else {
		docRepo = documents.NewMemoryRepo()
		scanRepo = scans.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
	}

	docSvc := &documents.Service{
		Store: app.Store,
		Repo:  docRepo,
	}

	var usageSvc *usage.Service
	if app.DB != nil {
		usageSvc = usage.NewPostgresService(usage.NewPGStore(app.DB))
	} else {
		usageSvc = usage.NewService()
	}

	llmClient := llm.Client(llm.PlaceholderClient{})
	if app.Config.LLMProvider == "openai" {
		openaiClient, err := openai.NewClient(os.Getenv("OPENAI_API_KEY"), app.Config.LLMModel)
		if err != nil {
			return err
		}
		llmClient = openaiClient
	}

	scanSvc := &scans.Service{
		Repo:        scanRepo,
		Usage:       usageSvc,
		DocRepo:     docRepo,
		Store:       app.Store,
		LLM:         llmClient,
		Queue:       app.Queue,
		Provider:    app.Config.LLMProvider,
		Model:       app.Config.LLMModel,
		ScanVersion: app.Config.ScanVersion,
	}

	accountSvc := account.NewService(docRepo, scanRepo)
	userSvc := users.NewService(userRepo)
	googleAuthSvc := googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		userSvc,
	)

	app.DocumentsRepo = docRepo
	app.ScansRepo = scanRepo
	app.UsersRepo = userRepo
	app.DocumentsService = docSvc
	app.UsageService = usageSvc
	app.ScansService = scanSvc
	app.ScanProcessor = scanSvc
	app.UsersService = userSvc
	app.AccountService = accountSvc
	app.DocumentsHandler = documents.NewHandler(docSvc)
	app.ScanHandler = scans.NewHandler(scanSvc)
	app.UsageHandler = usage.NewHandler(usageSvc)
	app.UsersHandler = users.NewHandler(userSvc)
	app.AccountHandler = account.NewHandler(accountSvc)
	app.GoogleAuth = googleAuthSvc

	return nil
}
