package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/staffhub/employee-api/internal/api/handler"
	"github.com/staffhub/employee-api/internal/api/middleware"
	"github.com/staffhub/employee-api/internal/core/domain"
	"github.com/staffhub/employee-api/internal/core/service"
	"github.com/staffhub/employee-api/internal/infrastructure/config"
	mongodb "github.com/staffhub/employee-api/internal/infrastructure/db/mongo"
	redisdb "github.com/staffhub/employee-api/internal/infrastructure/db/redis"
	"github.com/staffhub/employee-api/internal/infrastructure/storage"

	_ "github.com/staffhub/employee-api/docs"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("employee_api"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	departmentRepo := mongodb.NewDepartmentRepository(db)
	employeeRepo := mongodb.NewEmployeeRepository(db)
	photoStore := storage.NewPhotoStore(cfg.UploadDir)
	loginLimiter := redisdb.NewLoginLimiter(rdb, 0, 0)

	tokens := service.NewTokenIssuer(cfg.JWTSecret, 0)
	authService := service.NewAuthService(userRepo, tokens, loginLimiter, log)
	departmentService := service.NewDepartmentService(departmentRepo, log)
	employeeService := service.NewEmployeeService(employeeRepo, departmentRepo, photoStore, log)
	statsService := service.NewStatsService(employeeRepo, departmentRepo)

	authHandler := handler.NewAuthHandler(authService)
	departmentHandler := handler.NewDepartmentHandler(departmentService)
	employeeHandler := handler.NewEmployeeHandler(employeeService)
	dashboardHandler := handler.NewDashboardHandler(statsService)

	authRequired := middleware.Auth(tokens)
	canRead := middleware.RequireAction(domain.ActionRead)
	canWrite := middleware.RequireAction(domain.ActionWrite)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Departments ---
	departments := e.Group("/departments", authRequired)
	departments.GET("", departmentHandler.List, canRead)
	departments.POST("", departmentHandler.Create, canWrite)
	departments.PUT("/:id", departmentHandler.Update, canWrite)
	departments.DELETE("/:id", departmentHandler.Delete, canWrite)

	// --- Employees ---
	employees := e.Group("/employees", authRequired)
	employees.GET("", employeeHandler.List, canRead)
	employees.GET("/:id", employeeHandler.Get, canRead)
	employees.POST("", employeeHandler.Create, canWrite)
	employees.PUT("/:id", employeeHandler.Update, canWrite)
	employees.DELETE("/:id", employeeHandler.Delete, canWrite)

	// --- Dashboard ---
	e.GET("/dashboard/stats", dashboardHandler.Stats, authRequired, canRead)

	// --- Uploaded photos, served statically ---
	e.Static("/uploads", cfg.UploadDir)

	// --- Observability & docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
