package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/taskflow/office/docs"
	httpHandlers "github.com/taskflow/office/internal/adapters/http"
	"github.com/taskflow/office/internal/application/services"
	"github.com/taskflow/office/internal/infrastructure/config"
	"github.com/taskflow/office/internal/infrastructure/logger"
	"github.com/taskflow/office/internal/infrastructure/metrics"
	"github.com/taskflow/office/internal/ports"
)

// Server represents the HTTP server
type Server struct {
	echo    *echo.Echo
	config  *config.Config
	logger  *logger.Logger
	health  ports.HealthChecker
	metrics *metrics.Metrics
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a new server instance on top of the given repositories
func New(cfg *config.Config, repos ports.Repositories, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	e.Validator = &CustomValidator{validator: newValidator()}
	e.Debug = cfg.App.Debug
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = customErrorHandler(appLogger, cfg.App.Debug)

	server := &Server{
		echo:   e,
		config: cfg,
		logger: appLogger,
		health: repos.Health,
	}
	if cfg.Metrics.Enabled {
		server.metrics = metrics.New()
	}

	// Initialize services
	authService := services.NewAuthService(repos.Users, repos.Departments, cfg.JWT, appLogger)
	userService := services.NewUserService(repos.Users, repos.Departments, appLogger)
	taskService := services.NewTaskService(repos.Tasks, repos.Users, appLogger)
	taskLogService := services.NewTaskLogService(repos.TaskLogs, repos.Users, appLogger)
	attendanceService := services.NewAttendanceService(repos.Attendance, appLogger)
	wfhService := services.NewWFHService(repos.WFH, appLogger)

	// Initialize handlers
	handlers := routeHandlers{
		auth:       httpHandlers.NewAuthHandler(authService, appLogger),
		user:       httpHandlers.NewUserHandler(userService, appLogger),
		task:       httpHandlers.NewTaskHandler(taskService, server.metrics, appLogger),
		taskLog:    httpHandlers.NewTaskLogHandler(taskLogService, appLogger),
		attendance: httpHandlers.NewAttendanceHandler(attendanceService, server.metrics, appLogger),
		wfh:        httpHandlers.NewWFHHandler(wfhService, appLogger),
	}

	server.setupMiddleware()
	server.setupRoutes(handlers, authService)

	return server, nil
}

type routeHandlers struct {
	auth       *httpHandlers.AuthHandler
	user       *httpHandlers.UserHandler
	task       *httpHandlers.TaskHandler
	taskLog    *httpHandlers.TaskLogHandler
	attendance *httpHandlers.AttendanceHandler
	wfh        *httpHandlers.WFHHandler
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			reqLogger := s.logger.WithRequestID(values.RequestID)
			fields := []interface{}{
				"method", values.Method,
				"uri", values.URI,
				"status", values.Status,
				"latency_ms", float64(values.Latency.Nanoseconds()) / 1000000,
				"remote_ip", values.RemoteIP,
				"user_agent", values.UserAgent,
			}

			if values.Error != nil {
				reqLogger.WithError(values.Error).Warnw("HTTP request failed", fields...)
			} else {
				reqLogger.Infow("HTTP request", fields...)
			}

			return nil
		},
	}))

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  splitOrigins(s.config.Security.CORSAllowedOrigins),
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods:  []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		ExposeHeaders: []string{echo.HeaderContentDisposition},
	}))

	if s.config.Security.RateLimitRequests > 0 && s.config.Security.RateLimitWindow > 0 {
		s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(float64(s.config.Security.RateLimitRequests) / s.config.Security.RateLimitWindow.Seconds()),
				Burst:     s.config.Security.RateLimitRequests,
				ExpiresIn: s.config.Security.RateLimitWindow,
			}),
			IdentifierExtractor: func(c echo.Context) (string, error) {
				return c.RealIP(), nil
			},
			ErrorHandler: func(c echo.Context, err error) error {
				return c.JSON(http.StatusForbidden, httpHandlers.ErrorResponse{Detail: "rate limit exceeded"})
			},
			DenyHandler: func(c echo.Context, identifier string, err error) error {
				return c.JSON(http.StatusTooManyRequests, httpHandlers.ErrorResponse{Detail: "rate limit exceeded"})
			},
		}))
	}

	secure := middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
	}
	// HSTS only behind production TLS termination
	if s.config.App.IsProduction() {
		secure.HSTSMaxAge = 31536000
	}
	s.echo.Use(middleware.SecureWithConfig(secure))

	if s.config.Server.RequestTimeout > 0 {
		s.echo.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
			Timeout: s.config.Server.RequestTimeout,
		}))
	}

	if s.metrics != nil {
		s.echo.Use(s.metricsMiddleware())
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(h routeHandlers, authService *services.AuthService) {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	if s.metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}

	api := s.echo.Group("/api")

	// Public
	authGroup := api.Group("/auth")
	authGroup.POST("/login", h.auth.Login)
	authGroup.POST("/register", h.auth.Register)

	// Authenticated
	protected := api.Group("", s.authMiddleware(authService))

	protected.GET("/user/profile", h.user.GetProfile)
	protected.GET("/departments", h.user.ListDepartments)
	protected.GET("/departments/:id/users", h.user.ListDepartmentUsers)

	protected.GET("/tasks", h.task.ListTasks)
	protected.POST("/tasks", h.task.CreateTask)
	protected.GET("/tasks/:id", h.task.GetTask)
	protected.PATCH("/tasks/:id", h.task.UpdateTask)
	protected.DELETE("/tasks/:id", h.task.DeleteTask)

	protected.POST("/task-logs", h.taskLog.CreateTaskLog)
	protected.GET("/task-logs/:user_id", h.taskLog.ListForUser)
	protected.GET("/task-logs/:user_id/export", h.taskLog.ExportForUser)

	protected.GET("/attendance/status", h.attendance.Status)
	protected.POST("/attendance/checkin", h.attendance.CheckIn)
	protected.POST("/attendance/checkout", h.attendance.CheckOut)
	protected.GET("/attendance/history", h.attendance.History)
	protected.GET("/attendance/history/export", h.attendance.ExportHistory)

	protected.GET("/wfh", h.wfh.ListRequests)
	protected.POST("/wfh", h.wfh.CreateRequest)
	protected.GET("/approvals", h.wfh.PendingApprovals)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	status := "ok"
	checks := make(map[string]interface{})

	if err := s.health.HealthCheck(); err != nil {
		status = "error"
		checks["database"] = map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		}
	} else {
		checks["database"] = map[string]interface{}{
			"status": "ok",
			"stats":  s.health.GetConnectionInfo(),
		}
	}

	response := map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
		"version": map[string]string{
			"app":         s.config.App.Version,
			"environment": s.config.App.Environment,
		},
	}

	if status == "ok" {
		return c.JSON(http.StatusOK, response)
	}
	return c.JSON(http.StatusServiceUnavailable, response)
}

func (s *Server) readinessCheck(c echo.Context) error {
	if err := s.health.Ping(); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": "database_not_ready",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.echo.Server.ReadTimeout = s.config.Server.ReadTimeout
	s.echo.Server.WriteTimeout = s.config.Server.WriteTimeout
	s.echo.Server.IdleTimeout = s.config.Server.IdleTimeout

	s.logger.Infow("Starting server", "address", address)
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Infow("Shutting down server")
	return s.echo.Shutdown(ctx)
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
