package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Shiva-Rao-IT/faceauth/internal/api/handler"
	"github.com/Shiva-Rao-IT/faceauth/internal/api/middleware"
	"github.com/Shiva-Rao-IT/faceauth/internal/core/domain"
	"github.com/Shiva-Rao-IT/faceauth/internal/core/ports"
	"github.com/Shiva-Rao-IT/faceauth/internal/core/service"
	mongorepo "github.com/Shiva-Rao-IT/faceauth/internal/infrastructure/db/mongo"
	redisguard "github.com/Shiva-Rao-IT/faceauth/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, recognizer ports.Recognizer, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("faceauth"))

	// --- Dependencies ---
	identityRepo := mongorepo.NewIdentityRepository(db)
	courseRepo := mongorepo.NewCourseRepository(db)
	ledgerRepo := mongorepo.NewAttendanceRepository(db)
	guard := redisguard.NewCaptureGuard(rdb)

	matcher := service.NewMatcher(recognizer, log)
	authService := service.NewAuthService(identityRepo, jwtSecret, 24*time.Hour)
	studentService := service.NewStudentService(identityRepo, courseRepo, ledgerRepo, matcher, log)
	attendanceService := service.NewAttendanceService(identityRepo, ledgerRepo, matcher, guard, log)
	analyticsService := service.NewAnalyticsService(identityRepo, courseRepo, ledgerRepo, log)
	reportService := service.NewReportService(identityRepo, courseRepo, ledgerRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	studentHandler := handler.NewStudentHandler(studentService)
	courseHandler := handler.NewCourseHandler(courseRepo)
	attendanceHandler := handler.NewAttendanceHandler(attendanceService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	reportHandler := handler.NewReportHandler(reportService)

	authMiddleware := middleware.Auth(jwtSecret)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	teacherOnly := middleware.RBAC(domain.RoleTeacher)
	studentOnly := middleware.RBAC(domain.RoleStudent)
	staffOnly := middleware.RBAC(domain.RoleAdmin, domain.RoleTeacher)

	// --- Public routes ---
	e.POST("/auth/login", authHandler.Login)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Observability / docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Authenticated routes ---
	authed := e.Group("", authMiddleware)
	authed.GET("/courses", courseHandler.List)
	authed.GET("/profile", studentHandler.Profile)
	authed.GET("/students", studentHandler.List, staffOnly)

	admin := authed.Group("/admin", adminOnly)
	admin.POST("/students", studentHandler.Register)
	admin.PUT("/students/:id", studentHandler.Update)
	admin.PUT("/students/:id/face", studentHandler.UpdateFace)
	admin.DELETE("/students/:id", studentHandler.Delete)
	admin.GET("/analytics", analyticsHandler.School)
	admin.GET("/student-analytics/:id", analyticsHandler.StudentTimeline)
	admin.GET("/report", reportHandler.School)

	teacher := authed.Group("/teacher", teacherOnly)
	teacher.POST("/attendance", attendanceHandler.Mark)
	teacher.GET("/analytics/:course_id", analyticsHandler.Course)
	teacher.GET("/report/:course_id", reportHandler.Course)

	student := authed.Group("/student", studentOnly)
	student.GET("/attendance", analyticsHandler.OwnTimeline)

	return e
}
