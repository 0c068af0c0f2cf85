package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gusti-hub/mlb-borneo-be/internal/config"
	"github.com/gusti-hub/mlb-borneo-be/internal/entity"
	"github.com/gusti-hub/mlb-borneo-be/internal/handler"
	"github.com/gusti-hub/mlb-borneo-be/internal/middleware"
	"github.com/gusti-hub/mlb-borneo-be/internal/repository"
	"github.com/gusti-hub/mlb-borneo-be/internal/scheduler"
	"github.com/gusti-hub/mlb-borneo-be/internal/service"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting mlb-borneo service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := migrate(db, zapLogger); err != nil {
		zapLogger.Fatal("Failed to migrate database", zap.Error(err))
	}
	seed(db, zapLogger)

	rdb := initRedis(cfg.Redis)

	repos := repository.NewRepositories(db)
	services := service.NewServices(db, repos, rdb, cfg, zapLogger)
	handlers := handler.NewHandlers(services, repos)

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched, err = scheduler.New(cfg.Scheduler.Cron, services.Dashboard, zapLogger)
		if err != nil {
			zapLogger.Fatal("Failed to init scheduler", zap.Error(err))
		}
		sched.Start()
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	if sched != nil {
		sched.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func migrate(db *gorm.DB, zapLogger *zap.Logger) error {
	if err := db.AutoMigrate(
		&entity.User{},
		&entity.Vessel{},
		&entity.PIC{},
		&entity.Shipper{},
		&entity.Buyer{},
		&entity.LoadingPort{},
		&entity.DischargingPort{},
		&entity.Activity{},
		&entity.Appointment{},
		&entity.Attachment{},
		&entity.DashboardResult{},
	); err != nil {
		return err
	}

	// AutoMigrate does not rewrite existing FKs, so enforce the cascade
	// behavior the delete path depends on with raw SQL.
	migrationSQL := []string{
		"ALTER TABLE appointments DROP CONSTRAINT IF EXISTS fk_activities_appointments",
		"ALTER TABLE appointments ADD CONSTRAINT fk_activities_appointments FOREIGN KEY (activity_id) REFERENCES activities(id) ON DELETE CASCADE",
		"ALTER TABLE attachments DROP CONSTRAINT IF EXISTS fk_activities_attachments",
		"ALTER TABLE attachments ADD CONSTRAINT fk_activities_attachments FOREIGN KEY (activity_id) REFERENCES activities(id) ON DELETE CASCADE",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_dashboard_results_date_type ON dashboard_results(calculation_date, result_type)",
	}
	for _, sql := range migrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			zapLogger.Warn("Migration SQL warning (may already exist)", zap.String("sql", sql), zap.Error(err))
		}
	}
	zapLogger.Info("Database migration completed")
	return nil
}

func seed(db *gorm.DB, zapLogger *zap.Logger) {
	// Default admin account, password must be rotated after first login.
	hash, err := bcrypt.GenerateFromPassword([]byte(config.GetEnvOrDefault("ADMIN_PASSWORD", "admin123")), bcrypt.DefaultCost)
	if err == nil {
		db.Exec(`INSERT INTO users (id, username, email, password, full_name, role, is_active, created_at, updated_at)
			VALUES (?, 'admin', 'admin@mlbborneo.com', ?, 'Administrator', 'admin', true, NOW(), NOW())
			ON CONFLICT (username) DO NOTHING`, repository.NewID(), string(hash))
	}

	picSeeds := []struct{ Name, Code, Color string }{
		{"Alda", "ALDA", "#8B9FDE"},
		{"Andri", "ANDRI", "#F4A261"},
		{"Bayu", "BAYU", "#E76F51"},
	}
	for _, p := range picSeeds {
		db.Exec(`INSERT INTO pics (id, pic_name, pic_code, color_code, created_at)
			VALUES (?, ?, ?, ?, NOW())
			ON CONFLICT (pic_code) DO NOTHING`, repository.NewID(), p.Name, p.Code, p.Color)
	}
	zapLogger.Info("Seed data applied")
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/register", h.Auth.Register)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(cfg.JWT.Secret))
		{
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.PUT("/auth/profile", h.Auth.UpdateProfile)
			authorized.PUT("/auth/change-password", h.Auth.ChangePassword)

			activities := authorized.Group("/activities")
			{
				activities.GET("", h.Activity.List)
				activities.POST("", h.Activity.Create)
				activities.GET("/export", h.Activity.Export)
				activities.GET("/:id", h.Activity.Get)
				activities.PUT("/:id", h.Activity.Update)
				activities.DELETE("/:id", h.Activity.Delete)
				activities.POST("/:id/attachments", h.Attachment.Upload)
				activities.GET("/:id/attachments", h.Attachment.List)
			}

			attachments := authorized.Group("/attachments")
			{
				attachments.GET("/:id/download", h.Attachment.Download)
				attachments.DELETE("/:id", h.Attachment.Delete)
			}

			references := authorized.Group("/references")
			{
				references.GET("/vessels", h.Reference.ListVessels)
				references.GET("/pics", h.Reference.ListPICs)
				references.GET("/shippers", h.Reference.ListShippers)
				references.GET("/buyers", h.Reference.ListBuyers)
				references.GET("/loading-ports", h.Reference.ListLoadingPorts)
				references.GET("/discharging-ports", h.Reference.ListDischargingPorts)
			}

			dashboard := authorized.Group("/dashboard")
			{
				dashboard.GET("/data", h.Dashboard.GetData)
				dashboard.GET("/results/:type", h.Dashboard.GetResult)
				dashboard.POST("/calculate", h.Dashboard.Calculate)
				dashboard.GET("/pic/:picId/performance", h.Dashboard.PICPerformance)
			}
		}
	}
}
