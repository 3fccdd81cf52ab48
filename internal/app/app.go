package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studypact_backend/internal/config"
	"studypact_backend/internal/controller"
	"studypact_backend/internal/repository"
	"studypact_backend/internal/service"
	"studypact_backend/pkg/database"
	"studypact_backend/pkg/logger"
	"studypact_backend/pkg/monitoring"
	"studypact_backend/pkg/security"
	"studypact_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user     *repository.UserRepository
	roadmap  *repository.RoadmapRepository
	identity *repository.LearnerIdentityRepository
	skip     *repository.SkipRecordRepository
	attempt  *repository.MissionAttemptRepository
	weakSpot *repository.WeakSpotRepository
	debt     *repository.StudyDebtRepository
	action   *repository.EnforcementActionRepository
}

type services struct {
	auth        *service.AuthService
	storage     *service.StorageService
	identity    *service.IdentityService
	debt        *service.DebtService
	completion  *service.CompletionService
	skip        *service.SkipService
	attempt     *service.AttemptService
	remediation *service.RemediationService
	inactivity  *service.InactivityService
}

type controllers struct {
	auth        *controller.AuthController
	enforcement *controller.EnforcementController
	debt        *controller.DebtController
	remediation *controller.RemediationController
	identity    *controller.IdentityController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置热更新入口。数据库连接等重资源不随热更新重建，
// 只有注册过回调的组件会感知新配置
func (a *App) ApplyConfig(newCfg *config.Config) {
	logger.Log.Info("config reloaded", zap.String("mode", newCfg.Server.Mode))
	for _, callback := range a.configCallbacks {
		callback(newCfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		roadmap:  repository.NewRoadmapRepository(db),
		identity: repository.NewLearnerIdentityRepository(db),
		skip:     repository.NewSkipRecordRepository(db),
		attempt:  repository.NewMissionAttemptRepository(db),
		weakSpot: repository.NewWeakSpotRepository(db),
		debt:     repository.NewStudyDebtRepository(db),
		action:   repository.NewEnforcementActionRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.auth = service.NewAuthService(repos.user, cfg)
	s.storage = service.NewStorageService(cfg)
	s.identity = service.NewIdentityService(repos.identity)
	s.debt = service.NewDebtService(repos.debt, cfg.Enforcement)
	s.completion = service.NewCompletionService(cfg.Enforcement)

	s.skip = service.NewSkipService(
		db,
		repos.skip,
		repos.attempt,
		repos.roadmap,
		repos.identity,
		repos.action,
		s.debt,
		cfg.Enforcement,
	)

	s.attempt = service.NewAttemptService(
		repos.attempt,
		repos.weakSpot,
		repos.roadmap,
		repos.identity,
		repos.action,
		s.debt,
		s.identity,
		s.completion,
		cfg.Enforcement,
	)

	s.remediation = service.NewRemediationService(repos.weakSpot, repos.skip, repos.roadmap, cfg.Enforcement)
	s.inactivity = service.NewInactivityService(repos.identity, repos.action, s.debt, rdb, cfg.Enforcement)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth, repos.user),
		enforcement: controller.NewEnforcementController(s.skip, s.attempt, s.completion, s.inactivity, repos.action),
		debt:        controller.NewDebtController(s.debt),
		remediation: controller.NewRemediationController(s.remediation, s.storage),
		identity:    controller.NewIdentityController(s.identity),
		health:      controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// redis 只承担每日检测去重标记，缺失时降级运行
		logger.Log.Warn("Redis unavailable, inactivity sweep dedup disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(services, repos, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("studypact-enforcement", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
