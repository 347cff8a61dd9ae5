package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-course-gateway/api/swagger"
	"github.com/noah-isme/sma-course-gateway/internal/handler"
	"github.com/noah-isme/sma-course-gateway/internal/repository"
	"github.com/noah-isme/sma-course-gateway/internal/service"
	"github.com/noah-isme/sma-course-gateway/internal/upstream"
	"github.com/noah-isme/sma-course-gateway/pkg/cache"
	"github.com/noah-isme/sma-course-gateway/pkg/config"
	"github.com/noah-isme/sma-course-gateway/pkg/database"
	"github.com/noah-isme/sma-course-gateway/pkg/logger"
)

// @title SMA Course Gateway
// @version 1.0.0
// @description Reconciles the students API's inconsistent enrollment shapes and resolves free-text course input
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()
	validate := validator.New()
	checks := map[string]handler.Pinger{}

	client := upstream.NewClient(cfg.Upstream, metrics, logr.Named("upstream"))
	defer client.Close()

	var cacheRepo *repository.CacheRepository
	if cfg.Catalog.CacheEnabled {
		redisClient, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, catalog cache disabled", zap.Error(err))
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
			defer cacheRepo.Close() //nolint:errcheck
			checks["redis"] = cacheRepo
		}
	}
	var cacheSvc *service.CacheService
	if cacheRepo != nil {
		cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Catalog.CacheTTL, logr, true)
	}

	var submissionRepo *repository.SubmissionRepository
	if cfg.Database.Enabled {
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			logr.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer db.Close() //nolint:errcheck
		if err := database.Migrate(ctx, db); err != nil {
			logr.Fatal("failed to migrate schema", zap.Error(err))
		}
		submissionRepo = repository.NewSubmissionRepository(db)
		checks["postgres"] = submissionRepo
	}

	// A typed nil repository would read as enabled once boxed in the interface.
	var submissionSvc *service.SubmissionService
	if submissionRepo != nil {
		submissionSvc = service.NewSubmissionService(submissionRepo, metrics, logr)
	} else {
		submissionSvc = service.NewSubmissionService(nil, metrics, logr)
	}

	catalogSvc := service.NewCatalogService(client, cacheSvc, metrics, logr)
	studentSvc := service.NewStudentService(client, catalogSvc, submissionSvc, validate, metrics, logr,
		service.StudentServiceConfig{ExportTitle: cfg.Export.Title})
	enrollmentSvc := service.NewEnrollmentService(catalogSvc, metrics)
	authSvc := service.NewAuthService(validate, logr, service.AuthConfig{
		AdminEmail:        cfg.Admin.Email,
		AdminPasswordHash: cfg.Admin.PasswordHash,
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})

	r := newRouter(cfg, logr, routerDeps{
		metrics:     metrics,
		auth:        authSvc,
		checks:      checks,
		auths:       handler.NewAuthHandler(authSvc),
		courses:     handler.NewCourseHandler(catalogSvc),
		students:    handler.NewStudentHandler(studentSvc),
		enrollment:  handler.NewEnrollmentHandler(enrollmentSvc),
		submissions: handler.NewSubmissionHandler(submissionSvc),
		logEnabled:  submissionSvc.Enabled(),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.String("upstream", cfg.Upstream.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
