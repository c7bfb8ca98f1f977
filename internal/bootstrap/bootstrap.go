package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/enrollhub/internal/app/controllers"
	"github.com/yigit/enrollhub/internal/app/importer"
	appMigrations "github.com/yigit/enrollhub/internal/app/migrations"
	appRepos "github.com/yigit/enrollhub/internal/app/repositories"
	appRoutes "github.com/yigit/enrollhub/internal/app/routes"
	appServices "github.com/yigit/enrollhub/internal/app/services"
	"github.com/yigit/enrollhub/internal/config"
	"github.com/yigit/enrollhub/internal/db"
	appMiddleware "github.com/yigit/enrollhub/internal/middleware"
	pkgAuth "github.com/yigit/enrollhub/internal/pkg/auth"
	"github.com/yigit/enrollhub/internal/pkg/logger"
	"github.com/yigit/enrollhub/internal/seed"
)

// DefaultConfigPath is where the optional YAML config is looked up.
var DefaultConfigPath = filepath.Join("configs", "config.yaml")

// Services holds the application services, shared by the HTTP server and the admin CLI.
type Services struct {
	Repos        *appRepos.Repositories
	Hasher       pkgAuth.PasswordHasher
	JWTService   *pkgAuth.JWTService
	Auth         *appServices.AuthService
	Students     *appServices.StudentService
	Import       *appServices.ImportService
	ImportLimits *importer.Limiter
	Tracks       *appServices.TrackService
	Instructors  *appServices.InstructorService
	Enrollments  *appServices.EnrollmentService
	Coordinators *appServices.CoordinatorService
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	*Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	LoginLimiter   *appMiddleware.IPRateLimiter
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	if err := Migrate(ctx, database, lgr); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// Migrate applies the embedded schema migrations.
func Migrate(ctx context.Context, database *db.PostgresDB, lgr zerolog.Logger) error {
	lgr.Info().Msg("Running database migrations...")
	applied, err := appMigrations.NewMigrator(database.Pool).Up(ctx)
	if err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Int("applied", applied).Msg("Database migrations successfully applied.")
	return nil
}

// BuildServices initializes repositories and services.
func BuildServices(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) *Services {
	s := &Services{
		Repos:  appRepos.NewRepositories(database.Pool),
		Hasher: pkgAuth.NewBcryptHasher(cfg.Auth.BcryptCost),
	}

	s.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.JWT.AccessTokenTTL(),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	s.Auth = appServices.NewAuthService(
		s.Repos.StudentRepository,
		s.Repos.CoordinatorRepository,
		s.Hasher,
		s.JWTService,
		lgr.With().Str("service", "auth").Logger(),
	)
	s.Students = appServices.NewStudentService(
		s.Repos.StudentRepository,
		s.Hasher,
		cfg.Import.DefaultPassword,
		lgr.With().Str("service", "students").Logger(),
	)

	s.ImportLimits = importer.NewLimiter(cfg.Import.MaxConcurrent, cfg.Import.MaxWaitDuration())
	s.Import = appServices.NewImportService(
		s.Repos.StudentImportRepository,
		s.Hasher,
		s.ImportLimits,
		appServices.ImportOptions{
			ChunkSize:        cfg.Import.ChunkSize,
			BatchSize:        cfg.Import.BatchSize,
			DefaultPassword:  cfg.Import.DefaultPassword,
			RelaxConstraints: cfg.Import.RelaxConstraints,
		},
		lgr.With().Str("service", "import").Logger(),
	)

	s.Tracks = appServices.NewTrackService(s.Repos.TrackRepository, lgr.With().Str("service", "tracks").Logger())
	s.Instructors = appServices.NewInstructorService(s.Repos.InstructorRepository, lgr.With().Str("service", "instructors").Logger())
	s.Enrollments = appServices.NewEnrollmentService(
		s.Repos.EnrollmentRepository,
		s.Repos.StudentRepository,
		s.Repos.TrackRepository,
		s.Repos.CoordinatorRepository,
		lgr.With().Str("service", "enrollments").Logger(),
	)
	s.Coordinators = appServices.NewCoordinatorService(s.Repos.CoordinatorRepository, s.Hasher, lgr.With().Str("service", "coordinators").Logger())

	return s
}

// BuildDependencies initializes services, controllers and middleware for the HTTP server.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) *Dependencies {
	services := BuildServices(cfg, database, lgr)

	deps := &Dependencies{
		Services:       services,
		AuthMiddleware: appMiddleware.NewAuthMiddleware(services.JWTService),
		LoginLimiter:   appMiddleware.NewIPRateLimiter(cfg.Auth.LoginRatePerMinute, cfg.Auth.LoginBurst),
		Logger:         lgr,
	}

	deps.Controllers = appRoutes.Controllers{
		Auth:        appControllers.NewAuthController(services.Auth, lgr.With().Str("controller", "auth").Logger()),
		Student:     appControllers.NewStudentController(services.Students),
		Import:      appControllers.NewImportController(services.Import, cfg.Import.MaxFileSize),
		Track:       appControllers.NewTrackController(services.Tracks),
		Instructor:  appControllers.NewInstructorController(services.Instructors),
		Enrollment:  appControllers.NewEnrollmentController(services.Enrollments),
		Coordinator: appControllers.NewCoordinatorController(services.Coordinators),
		Health:      appControllers.NewHealthController(database),
	}

	return deps
}

// SeedDefaults creates the default coordinator. Failures are logged and do not stop startup.
func SeedDefaults(ctx context.Context, cfg *config.Config, services *Services, lgr zerolog.Logger) {
	if err := seed.CreateDefaultData(ctx, services.Repos.CoordinatorRepository, services.Hasher, cfg.Seed, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}
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

	appMiddleware.RegisterValidation()

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr))
	router.MaxMultipartMemory = cfg.Import.MaxFileSize

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, deps.LoginLimiter)

	return router
}
