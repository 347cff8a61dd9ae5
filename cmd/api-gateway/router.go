package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-course-gateway/internal/handler"
	"github.com/noah-isme/sma-course-gateway/internal/middleware"
	"github.com/noah-isme/sma-course-gateway/internal/service"
	"github.com/noah-isme/sma-course-gateway/pkg/config"
	"github.com/noah-isme/sma-course-gateway/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-course-gateway/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-course-gateway/pkg/middleware/requestid"
)

type routerDeps struct {
	metrics     *service.MetricsService
	auth        middleware.TokenValidator
	checks      map[string]handler.Pinger
	auths       *handler.AuthHandler
	courses     *handler.CourseHandler
	students    *handler.StudentHandler
	enrollment  *handler.EnrollmentHandler
	submissions *handler.SubmissionHandler
	logEnabled  bool
}

func newRouter(cfg *config.Config, logr *zap.Logger, deps routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.metrics))

	metricsHandler := handler.NewMetricsHandler(deps.metrics.Handler(), deps.checks)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", deps.auths.Login)

	api.GET("/courses", deps.courses.List)
	api.GET("/courses/:id", deps.courses.Get)

	api.GET("/students", deps.students.List)
	api.GET("/students/export", deps.students.Export)
	api.GET("/students/:id", deps.students.Get)

	secured := api.Group("")
	secured.Use(middleware.JWT(deps.auth))
	secured.POST("/courses/refresh", deps.courses.Refresh)
	secured.POST("/students", deps.students.Create)
	secured.PUT("/students/:id", deps.students.Update)
	secured.DELETE("/students/:id", deps.students.Delete)
	if deps.logEnabled {
		secured.GET("/submissions", deps.submissions.List)
	}

	api.POST("/enrollment/resolve", deps.enrollment.Resolve)
	api.POST("/enrollment/parse", deps.enrollment.Parse)

	return r
}
