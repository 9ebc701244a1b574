package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/emre/resitdesk/internal/app/auth"
	appControllers "github.com/emre/resitdesk/internal/app/controllers"
	appMigrations "github.com/emre/resitdesk/internal/app/migrations"
	appRepos "github.com/emre/resitdesk/internal/app/repositories"
	appRoutes "github.com/emre/resitdesk/internal/app/routes"
	appServices "github.com/emre/resitdesk/internal/app/services"
	"github.com/emre/resitdesk/internal/config"
	"github.com/emre/resitdesk/internal/db"
	appMiddleware "github.com/emre/resitdesk/internal/middleware"
	pkgAuth "github.com/emre/resitdesk/internal/pkg/auth"
	"github.com/emre/resitdesk/internal/pkg/logger"
	"github.com/emre/resitdesk/internal/pkg/validation"
	"github.com/emre/resitdesk/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	CourseService          *appServices.CourseService
	ResitExamService       *appServices.ResitExamService
	EnrollmentService      *appServices.EnrollmentService
	ResultService          *appServices.ResultService
	CascadeService         *appServices.CascadeService
	UserService            *appServices.UserService
	NotificationService    *appServices.NotificationService
	CourseController       *appControllers.CourseController
	ResitExamController    *appControllers.ResitExamController
	EnrollmentController   *appControllers.EnrollmentController
	ResultController       *appControllers.ResultController
	UserController         *appControllers.UserController
	NotificationController *appControllers.NotificationController
	AuthMiddleware         *appMiddleware.AuthMiddleware
	Repos                  *appRepos.Repositories
	AuthzService           *appAuth.AuthorizationService
	Logger                 zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)
	repos := deps.Repos

	deps.AuthzService = appAuth.NewAuthorizationService(
		repos.CourseRepository,
		repos.ResitExamRepository,
	)

	dispatcher := appServices.NewPersistingDispatcher(repos.NotificationRepository)

	deps.CourseService = appServices.NewCourseService(
		repos.CourseRepository,
		repos.GradeRepository,
		repos.UserRepository,
		database,
	)
	deps.ResitExamService = appServices.NewResitExamService(
		repos.ResitExamRepository,
		repos.CourseRepository,
		repos.EnrollmentRepository,
		repos.ResultRepository,
		repos.UserRepository,
		deps.AuthzService,
		dispatcher,
		database,
	)
	deps.EnrollmentService = appServices.NewEnrollmentService(
		repos.ResitExamRepository,
		repos.CourseRepository,
		repos.GradeRepository,
		repos.EnrollmentRepository,
		deps.AuthzService,
	)
	deps.ResultService = appServices.NewResultService(
		repos.ResitExamRepository,
		repos.EnrollmentRepository,
		repos.ApplicationRepository,
		repos.ResultRepository,
		repos.GradeRepository,
		deps.AuthzService,
		database,
	)
	deps.CascadeService = appServices.NewCascadeService(
		repos.UserRepository,
		repos.CourseRepository,
		repos.GradeRepository,
		repos.ResitExamRepository,
		repos.EnrollmentRepository,
		repos.ApplicationRepository,
		repos.ResultRepository,
		deps.AuthzService,
		database,
	)
	deps.UserService = appServices.NewUserService(repos.UserRepository)
	deps.NotificationService = appServices.NewNotificationService(repos.NotificationRepository)

	verifier := pkgAuth.NewTokenVerifier(pkgAuth.TokenVerifierConfig{
		SecretKey: cfg.JWT.Secret,
		Issuer:    cfg.JWT.Issuer,
	})
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(verifier)

	deps.CourseController = appControllers.NewCourseController(deps.CourseService, deps.CascadeService)
	deps.ResitExamController = appControllers.NewResitExamController(deps.ResitExamService, deps.CascadeService)
	deps.EnrollmentController = appControllers.NewEnrollmentController(deps.EnrollmentService)
	deps.ResultController = appControllers.NewResultController(deps.ResultService)
	deps.UserController = appControllers.NewUserController(deps.UserService, deps.CascadeService)
	deps.NotificationController = appControllers.NewNotificationController(deps.NotificationService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	validation.RegisterCustomValidators()

	router := gin.Default()
	router.Use(appMiddleware.RequestID())

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		deps.CourseController,
		deps.ResitExamController,
		deps.EnrollmentController,
		deps.ResultController,
		deps.UserController,
		deps.NotificationController,
		deps.AuthMiddleware,
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
