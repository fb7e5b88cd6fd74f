package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/semesterhub/internal/app/auth"
	appControllers "github.com/yigit/semesterhub/internal/app/controllers"
	appMigrations "github.com/yigit/semesterhub/internal/app/migrations"
	appRepos "github.com/yigit/semesterhub/internal/app/repositories"
	appRoutes "github.com/yigit/semesterhub/internal/app/routes"
	appServices "github.com/yigit/semesterhub/internal/app/services"
	"github.com/yigit/semesterhub/internal/config"
	"github.com/yigit/semesterhub/internal/db"
	appMiddleware "github.com/yigit/semesterhub/internal/middleware"
	pkgAuth "github.com/yigit/semesterhub/internal/pkg/auth"
	"github.com/yigit/semesterhub/internal/pkg/blobstore"
	"github.com/yigit/semesterhub/internal/pkg/helpers"
	"github.com/yigit/semesterhub/internal/pkg/logger"
	"github.com/yigit/semesterhub/internal/pkg/metrics"
	"github.com/yigit/semesterhub/internal/pkg/websocket"
	"github.com/yigit/semesterhub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	Store          blobstore.BlobStore
	JWTService     *pkgAuth.JWTService
	AuthzService   *appAuth.AuthorizationService
	AuthMiddleware *appMiddleware.AuthMiddleware
	ChatHub        *websocket.Hub
	Controllers    appRoutes.Controllers
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.ConfigFromStrings(cfg.Logging.Level, cfg.Logging.Format))

	lgr := logger.Get()
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds default data.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(cfg.GetPostgresConnectionString(), lgr)
	if err := migrator.Up(); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	seedCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	admin := seed.Admin{
		Name:     cfg.Seed.AdminName,
		Email:    cfg.Seed.AdminEmail,
		Password: cfg.Seed.AdminPassword,
	}
	if err := seed.CreateDefaultData(seedCtx, appRepos.NewSemesterRepository(dbPool), appRepos.NewUserRepository(dbPool), admin, lgr); err != nil {
		// Log the error but don't fail the startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// SetupBlobStore opens the blob store selected by storage.driver.
func SetupBlobStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (blobstore.BlobStore, error) {
	storeLogger := logger.Component("blobstore")

	switch cfg.Storage.Driver {
	case config.StorageDriverMinio:
		store, err := blobstore.NewMinioStore(ctx, blobstore.MinioConfig{
			Endpoint:  cfg.Storage.Minio.Endpoint,
			AccessKey: cfg.Storage.Minio.AccessKey,
			SecretKey: cfg.Storage.Minio.SecretKey,
			Bucket:    cfg.Storage.Minio.Bucket,
			UseSSL:    cfg.Storage.Minio.UseSSL,
		}, storeLogger)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to initialize minio storage")
			return nil, fmt.Errorf("failed to initialize minio storage: %w", err)
		}
		lgr.Info().Str("bucket", cfg.Storage.Minio.Bucket).Msg("Using minio blob storage")
		return store, nil
	default:
		store, err := blobstore.NewLocalStore(cfg.Server.StoragePath, storeLogger)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to initialize file storage")
			return nil, fmt.Errorf("failed to initialize file storage: %w", err)
		}
		lgr.Info().Str("path", store.BasePath()).Msg("Using local blob storage")
		return store, nil
	}
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, store blobstore.BlobStore, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Store: store}

	deps.Repos = appRepos.NewRepositories(dbPool)
	repos := deps.Repos

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.AuthzService = appAuth.NewAuthorizationService(repos.UserRepository)
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	// Initialize services
	semesterService := appServices.NewSemesterService(repos.SemesterRepository)
	syllabusService := appServices.NewSyllabusService(
		repos.SyllabusRepository, repos.SemesterRepository, deps.AuthzService, store, logger.Component("syllabi"))
	paperService := appServices.NewQuestionPaperService(
		repos.QuestionPaperRepository, repos.SemesterRepository, deps.AuthzService, store, logger.Component("question_papers"))
	resourceService := appServices.NewResourceService(
		repos.ResourceRepository, repos.SemesterRepository, deps.AuthzService, store, logger.Component("resources"))
	overviewService := appServices.NewOverviewService(
		repos.SyllabusRepository,
		repos.QuestionPaperRepository,
		repos.ResourceRepository,
		repos.SemesterRepository,
		repos.UserRepository,
		deps.AuthzService,
	)
	userService := appServices.NewUserService(repos.UserRepository, deps.AuthzService, logger.Component("users"))
	authService := appServices.NewAuthService(repos.UserRepository, deps.JWTService, logger.Component("auth"))
	chatService := appServices.NewChatService(appServices.ChatConfig{
		BaseURL:      cfg.AI.BaseURL,
		Model:        cfg.AI.Model,
		Temperature:  cfg.AI.Temperature,
		AskTimeout:   helpers.ParseDuration(cfg.AI.AskTimeout, 30*time.Second),
		ProbeTimeout: helpers.ParseDuration(cfg.AI.ProbeTimeout, 10*time.Second),
	}, &http.Client{}, logger.Component("chat"))

	chatLogger := logger.Component("chat")
	deps.ChatHub = websocket.NewHub(chatLogger)

	deps.Controllers = appRoutes.Controllers{
		Auth:          appControllers.NewAuthController(authService, logger.Component("auth")),
		Semester:      appControllers.NewSemesterController(semesterService, syllabusService, paperService, resourceService),
		Syllabus:      appControllers.NewSyllabusController(syllabusService, logger.Component("syllabi")),
		QuestionPaper: appControllers.NewQuestionPaperController(paperService, logger.Component("question_papers")),
		Resource:      appControllers.NewResourceController(resourceService, logger.Component("resources")),
		Home:          appControllers.NewHomeController(overviewService),
		User:          appControllers.NewUserController(userService, logger.Component("users")),
		Chat:          appControllers.NewChatController(chatService, deps.ChatHub, chatLogger),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(logger.Component("http")), appMiddleware.Metrics(), gin.Recovery())
	if cfg.Server.MaxMultipartMemoryMB > 0 {
		router.MaxMultipartMemory = int64(cfg.Server.MaxMultipartMemoryMB) << 20
	}

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	// The local storage root is also published read-only
	if local, ok := deps.Store.(*blobstore.LocalStore); ok && cfg.Server.PublicStoragePrefix != "" {
		router.Static(cfg.Server.PublicStoragePrefix, local.BasePath())
		lgr.Info().Str("prefix", cfg.Server.PublicStoragePrefix).Str("path", local.BasePath()).Msg("Static file serving configured for storage")
	}

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
