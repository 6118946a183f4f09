package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/learnhub/course-marketplace/internal/api/handler"
	"github.com/learnhub/course-marketplace/internal/api/middleware"
	"github.com/learnhub/course-marketplace/internal/core/domain"
	"github.com/learnhub/course-marketplace/internal/core/ports"
	"github.com/learnhub/course-marketplace/internal/core/service"
	"github.com/learnhub/course-marketplace/internal/infrastructure/config"
	mongodb "github.com/learnhub/course-marketplace/internal/infrastructure/db/mongo"
	redisdb "github.com/learnhub/course-marketplace/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(
	db *mongo.Database,
	rdb *redis.Client,
	files ports.FileStore,
	cleaner service.FileCleaner,
	cfg *config.Config,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("marketplace"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	courseRepo := mongodb.NewCourseRepository(db)
	enrollGuard := redisdb.NewEnrollGuard(rdb)

	authService := service.NewAuthService(userRepo, files, cfg.JWTSecret, 7*24*time.Hour, log)
	courseService := service.NewCourseService(courseRepo, userRepo, files, cleaner, log)
	enrollService := service.NewEnrollmentService(courseRepo, enrollGuard, log)
	contentService := service.NewContentService(courseRepo, files, log)

	maxUpload := cfg.Upload.MaxSizeMB * 1024 * 1024

	authHandler := handler.NewAuthHandler(authService, maxUpload)
	courseHandler := handler.NewCourseHandler(courseService, maxUpload)
	enrollHandler := handler.NewEnrollmentHandler(enrollService)
	contentHandler := handler.NewContentHandler(contentService, maxUpload)

	authRequired := middleware.Auth(cfg.JWTSecret)
	teacherOnly := middleware.RBAC(domain.RoleTeacher)
	studentOnly := middleware.RBAC(domain.RoleStudent)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Uploaded media ---
	e.Static("/uploads", cfg.Upload.Dir)

	// --- Auth routes ---
	users := e.Group("/api/users")
	users.POST("/signup", authHandler.Register)
	users.POST("/login", authHandler.Login)
	users.POST("/forget-password", authHandler.ForgotPassword)
	users.POST("/reset-password/:token", authHandler.ResetPassword)
	users.GET("/profile", authHandler.Profile, authRequired)
	users.PUT("/profile", authHandler.UpdateProfile, authRequired)
	users.GET("/dashboard/stats", authHandler.DashboardStats, authRequired, adminOnly)
	users.GET("/users", authHandler.ListUsers, authRequired, adminOnly)

	// --- Public course routes (anonymous callers get the published view) ---
	e.GET("/api/courses/featured", courseHandler.Featured)
	e.GET("/api/courses/categories", courseHandler.Categories)
	e.GET("/api/courses/public", courseHandler.List)
	e.GET("/api/courses/:id/public", courseHandler.Get)

	// --- Authenticated course routes ---
	courses := e.Group("/api/courses", authRequired)
	courses.GET("", courseHandler.List)
	courses.POST("", courseHandler.Create, teacherOnly)
	courses.GET("/enrolled", courseHandler.Enrolled, studentOnly)
	courses.GET("/:id", courseHandler.Get)
	courses.PUT("/:id", courseHandler.Update, teacherOnly)
	courses.DELETE("/:id", courseHandler.Delete, teacherOnly)
	courses.PATCH("/:id/publish", courseHandler.TogglePublish, teacherOnly)
	courses.POST("/:id/enroll", enrollHandler.Enroll, studentOnly)
	courses.POST("/:id/reviews", enrollHandler.AddReview, studentOnly)
	courses.POST("/:id/pdfs", contentHandler.UploadPDF, teacherOnly)
	courses.POST("/:id/videos", contentHandler.UploadVideo, teacherOnly)

	// --- Analytics ---
	e.GET("/api/analytics/courses", courseHandler.Analytics, authRequired, teacherOnly)

	return e
}
