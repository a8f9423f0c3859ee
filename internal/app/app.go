package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"classroom_backend/internal/config"
	"classroom_backend/internal/controller"
	"classroom_backend/internal/model"
	"classroom_backend/internal/repository"
	"classroom_backend/internal/service"
	"classroom_backend/pkg/configwatcher"
	"classroom_backend/pkg/database"
	"classroom_backend/pkg/logger"
	"classroom_backend/pkg/monitoring"
	"classroom_backend/pkg/security"
	"classroom_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type App struct {
	Router *gin.Engine
	Store  *repository.Store
	Redis  *redis.Client

	config          atomic.Pointer[config.Config]
	services        *services
	configCallbacks []func(*config.Config)
	tracer          *sdktrace.TracerProvider

	// ctx 在 Shutdown 时取消，用于结束后台协程
	ctx    context.Context
	cancel context.CancelFunc
}

type services struct {
	auth         *service.AuthService
	user         *service.UserService
	storage      *service.StorageService
	submission   *service.SubmissionService
	curriculum   *service.CurriculumService
	report       *service.ReportService
	announcement *service.AnnouncementService
	question     *service.QuestionService
	importer     *service.QuestionImportService
	seed         *service.SeedService
}

type controllers struct {
	auth          *controller.AuthController
	student       *controller.StudentController
	submission    *controller.SubmissionController
	curriculum    *controller.CurriculumController
	report        *controller.ReportController
	question      *controller.QuestionController
	importer      *controller.ImportController
	health        *controller.HealthController
	classes       *controller.ResourceController[model.Class]
	subjects      *controller.ResourceController[model.Subject]
	topics        *controller.ResourceController[model.Topic]
	lessons       *controller.ResourceController[model.Lesson]
	assignments   *controller.ResourceController[model.Assignment]
	announcements *controller.ResourceController[model.Announcement]
	questions     *controller.ResourceController[model.Question]
}

// Config 当前生效的配置，热更新后返回新值
func (a *App) Config() *config.Config {
	return a.config.Load()
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) applyConfig(cfg *config.Config) {
	a.config.Store(cfg)
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

// openBackend 按 store.driver 打开资源存储后端
func (a *App) openBackend(cfg *config.Config) (repository.Backend, error) {
	switch cfg.Store.Driver {
	case "mysql", "postgres", "sqlite":
		db, err := database.InitDB(cfg.Store.Driver, &cfg.Database, cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		return repository.NewGormBackend(db)
	case "redis":
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.Redis = rdb
		return repository.NewRedisBackend(rdb, cfg.Store.KeyPrefix), nil
	case "bolt":
		db, err := database.InitBolt(cfg.Store.BoltPath)
		if err != nil {
			return nil, err
		}
		return repository.NewBoltBackend(db)
	case "memory":
		logger.Log.Warn("使用内存存储，进程退出后数据会丢失")
		return repository.NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// openSessionStore 导入会话默认放在内存，多实例部署时改用 redis
func (a *App) openSessionStore(cfg *config.Config) (service.ImportSessionStore, error) {
	ttl := time.Duration(cfg.Import.SessionTTLMinutes) * time.Minute
	if cfg.Import.SessionStore != "redis" {
		return service.NewMemorySessionStore(ttl), nil
	}
	if a.Redis == nil {
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.Redis = rdb
	}
	return service.NewRedisSessionStore(a.Redis, cfg.Store.KeyPrefix, ttl), nil
}

func (a *App) initServices(cfg *config.Config, repo *repository.Collections, sessions service.ImportSessionStore) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repo, cfg)
	s.user = service.NewUserService(repo)
	s.submission = service.NewSubmissionService(repo)
	s.curriculum = service.NewCurriculumService(repo, s.storage)
	s.report = service.NewReportService(repo)
	s.announcement = service.NewAnnouncementService(repo)
	s.question = service.NewQuestionService(repo)
	s.importer = service.NewQuestionImportService(repo, sessions, cfg.Import.MaxFileSizeMB)
	s.seed = service.NewSeedService(a.Store, repo)

	return s
}

func (a *App) initControllers(s *services, repo *repository.Collections, cfg *config.Config) *controllers {
	return &controllers{
		auth:          controller.NewAuthController(s.auth, s.user),
		student:       controller.NewStudentController(s.user),
		submission:    controller.NewSubmissionController(s.submission),
		curriculum:    controller.NewCurriculumController(s.curriculum),
		report:        controller.NewReportController(s.report, s.announcement, s.user),
		question:      controller.NewQuestionController(s.question),
		importer:      controller.NewImportController(s.importer),
		health:        controller.NewHealthController(a.Store, cfg.Store.Driver),
		classes:       controller.NewResourceController(repo.Classes),
		subjects:      controller.NewResourceController(repo.Subjects),
		topics:        controller.NewResourceController(repo.Topics),
		lessons:       controller.NewResourceController(repo.Lessons),
		assignments:   controller.NewResourceController(repo.Assignments),
		announcements: controller.NewResourceController(repo.Announcements),
		questions:     controller.NewResourceController(repo.Questions),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(a.ctx, cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// NewApp 打开存储、组装各层并注册路由，不会启动 HTTP 服务
func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	gin.SetMode(cfg.Server.Mode)

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{ctx: ctx, cancel: cancel}
	app.config.Store(cfg)

	backend, err := app.openBackend(cfg)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}
	app.Store = repository.NewStore(backend)
	logger.Log.Info("资源存储已就绪", zap.String("driver", cfg.Store.Driver))

	repo, err := repository.NewCollections(app.Store)
	if err != nil {
		app.Close()
		return nil, err
	}
	sessions, err := app.openSessionStore(cfg)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("open import session store: %w", err)
	}

	app.services = app.initServices(cfg, repo, sessions)
	controllers := app.initControllers(app.services, repo, cfg)

	// 可以热更新的配置项
	app.RegisterConfigCallback(logger.SetLevel)
	app.RegisterConfigCallback(func(c *config.Config) {
		app.services.importer.SetMaxFileSize(c.Import.MaxFileSizeMB)
	})

	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("classroom-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
		} else {
			app.tracer = tp
		}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router
	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app, nil
}

// Seed 写入示例数据（已写入过则跳过）
func (a *App) Seed(ctx context.Context) error {
	seeded, err := a.services.seed.Seed(ctx)
	if err != nil {
		return err
	}
	if !seeded {
		logger.Log.Info("示例数据已存在", zap.String("flag", service.SeedVersionFlag))
	}
	return nil
}

func (a *App) startBackgroundTasks() {
	cfg := a.Config()
	if cfg.Path == "" {
		return
	}
	go func() {
		if err := configwatcher.Watch(a.ctx, cfg.Path, a.applyConfig); err != nil {
			logger.Log.Warn("配置热更新不可用", zap.Error(err))
		}
	}()
}

// Run 启动 HTTP 服务，收到 SIGINT/SIGTERM 后优雅退出
func (a *App) Run() error {
	cfg := a.Config()
	if cfg.Bootstrap.SeedOnStart {
		if err := a.Seed(a.ctx); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}
	a.startBackgroundTasks()

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: a.Router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		a.Close()
		return fmt.Errorf("listen: %w", err)
	}
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	a.Close()

	logger.Log.Info("Server exiting")
	return nil
}

// Close 释放存储连接、导出剩余 span，可重复调用
func (a *App) Close() {
	a.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := tracing.Shutdown(ctx, a.tracer); err != nil {
		logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
	}
	a.tracer = nil

	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			logger.Log.Warn("关闭资源存储失败", zap.Error(err))
		}
		a.Store = nil
	}
	if a.Redis != nil {
		// 与 redis 存储后端共用时客户端已经关闭，忽略错误
		_ = a.Redis.Close()
		a.Redis = nil
	}
	logger.Log.Sync()
}
