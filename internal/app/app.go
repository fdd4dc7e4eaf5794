package app

import (
	"context"
	"course_progress_backend/internal/config"
	"course_progress_backend/internal/controller"
	"course_progress_backend/internal/repository"
	"course_progress_backend/internal/service"
	"course_progress_backend/internal/util"
	"course_progress_backend/pkg/configwatcher"
	"course_progress_backend/pkg/database"
	"course_progress_backend/pkg/lock"
	"course_progress_backend/pkg/logger"
	"course_progress_backend/pkg/monitoring"
	"course_progress_backend/pkg/security"
	"course_progress_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	// ConfigFile, when set, is watched and hot-reloaded while Run is active.
	ConfigFile string

	courseCache     *repository.CachedCourseProvider
	redisLocker     *lock.RedisLocker
	tracer          *sdktrace.TracerProvider
	stop            chan struct{}
	stopOnce        sync.Once
	mu              sync.Mutex
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	course     *repository.CourseRepository
	enrollment *repository.EnrollmentRepository
	progress   *repository.ProgressRepository
}

type services struct {
	progress   *service.ProgressService
	assignment *service.AssignmentService
	report     *service.ReportService
}

type controllers struct {
	progress   *controller.ProgressController
	assignment *controller.AssignmentController
	report     *controller.ReportController
	health     *controller.HealthController
}

// RegisterConfigCallback adds a hook run after every successful reload.
func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, cfg *config.Config) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		course:     repository.NewCourseRepository(db),
		enrollment: repository.NewEnrollmentRepository(db),
		progress:   repository.NewProgressRepository(db, cfg.Progress.MaxConflictRetries),
	}
}

func (a *App) newLocker(cfg *config.Config, rdb *redis.Client) lock.Locker {
	if cfg.Progress.LockBackend == util.LockBackendRedis && rdb != nil {
		a.redisLocker = lock.NewRedisLocker(rdb, "lock:", cfg.Progress.LockTTL, cfg.Progress.LockWait)
		return a.redisLocker
	}
	return lock.NewLocalLocker(cfg.Progress.LockWait)
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	a.courseCache = repository.NewCachedCourseProvider(repos.course, rdb, cfg.Progress.CourseCacheTTL)
	locker := a.newLocker(cfg, rdb)

	return &services{
		progress:   service.NewProgressService(a.courseCache, repos.enrollment, repos.progress, locker),
		assignment: service.NewAssignmentService(a.courseCache, repos.enrollment, repos.progress, locker),
		report:     service.NewReportService(a.courseCache, repos.enrollment, repos.progress, repos.user),
	}
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		progress:   controller.NewProgressController(s.progress),
		assignment: controller.NewAssignmentController(s.assignment),
		report:     controller.NewReportController(s.report),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if cfg.RateLimit.MaxRequests > 0 && window > 0 {
		router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, window, a.stop))
	}

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// applyConfig pushes the reloadable settings into the running components.
func (a *App) applyConfig(cfg *config.Config) {
	logger.SetMode(cfg.Server.Mode)
	if a.courseCache != nil {
		a.courseCache.SetTTL(cfg.Progress.CourseCacheTTL)
	}
	if a.redisLocker != nil {
		a.redisLocker.SetTTL(cfg.Progress.LockTTL)
	}
	logger.Log.Info("Runtime config applied",
		zap.String("mode", cfg.Server.Mode),
		zap.Duration("courseCacheTTL", cfg.Progress.CourseCacheTTL),
		zap.Duration("lockTTL", cfg.Progress.LockTTL),
	)

	a.mu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.mu.Unlock()
	for _, cb := range callbacks {
		cb(cfg)
	}
}

// New assembles the HTTP application on top of ready connections. rdb may be
// nil, in which case course caching is off and locking stays in-process.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		stop:   make(chan struct{}),
	}

	repos := app.initRepositories(db, cfg)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers)

	return app
}

// NewApp connects to the configured backends and builds the application.
func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	migrate := cfg.ForceMigrate || cfg.Server.Mode != "release"
	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode, migrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
			log.Fatalf("Failed to initialize redis: %v", err)
		}
	}

	app := New(cfg, db, rdb)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("course-progress", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.ConfigFile != "" {
		go func() {
			if err := configwatcher.Watch(ctx, a.ConfigFile, time.Second, a.applyConfig); err != nil {
				logger.Log.Error("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	a.Close(shutdownCtx)
	log.Println("Server exiting")
}

// Close stops background work and releases connections.
func (a *App) Close(ctx context.Context) {
	a.stopOnce.Do(func() { close(a.stop) })

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Log.Error("Failed to close redis", zap.Error(err))
		}
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
}
