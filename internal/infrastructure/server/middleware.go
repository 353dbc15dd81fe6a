package server

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	httpHandlers "github.com/taskflow/office/internal/adapters/http"
	"github.com/taskflow/office/internal/application/services"
	"github.com/taskflow/office/internal/domain/entities"
	"github.com/taskflow/office/internal/infrastructure/logger"
)

// newValidator reports fields by their JSON names
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// authMiddleware resolves the bearer token to a user and stores it on the context
func (s *Server) authMiddleware(authService *services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}

			scheme, token, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
			}

			user, err := authService.Authenticate(c.Request().Context(), token)
			if err != nil {
				s.logger.LogSecurityEvent("invalid_token", "", c.RealIP(), map[string]interface{}{
					"error":    err.Error(),
					"endpoint": c.Request().URL.Path,
				})
				return err
			}

			httpHandlers.SetCurrentUser(c, user)
			return next(c)
		}
	}
}

// metricsMiddleware records request counts and latency by route
func (s *Server) metricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := c.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				} else {
					status = statusFor(err)
				}
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}

			s.metrics.RequestsTotal.WithLabelValues(c.Request().Method, path, strconv.Itoa(status)).Inc()
			s.metrics.RequestDuration.WithLabelValues(c.Request().Method, path).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// statusFor maps a domain error kind to its HTTP status
func statusFor(err error) int {
	switch entities.KindOf(err) {
	case entities.KindUnauthenticated:
		return http.StatusUnauthorized
	case entities.KindPermissionDenied:
		return http.StatusForbidden
	case entities.KindNotFound:
		return http.StatusNotFound
	case entities.KindConflict:
		return http.StatusBadRequest
	case entities.KindValidation:
		return http.StatusUnprocessableEntity
	case entities.KindUnknown:
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// customErrorHandler renders every error as {"detail": ...}. In debug mode
// internal errors carry their message instead of the generic status text.
func customErrorHandler(logger *logger.Logger, debug bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code   = http.StatusInternalServerError
			detail interface{}
		)

		var (
			he        *echo.HTTPError
			domainErr *entities.Error
			ve        validator.ValidationErrors
		)
		switch {
		case errors.As(err, &he):
			code = he.Code
			detail = he.Message
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		case errors.As(err, &ve):
			code = http.StatusUnprocessableEntity
			fields := make([]httpHandlers.FieldError, 0, len(ve))
			for _, fe := range ve {
				fields = append(fields, httpHandlers.FieldError{
					Field:   fe.Field(),
					Message: fmt.Sprintf("failed on the '%s' rule", fe.Tag()),
				})
			}
			detail = fields
		case errors.As(err, &domainErr) && domainErr.Kind != entities.KindUnknown:
			code = statusFor(err)
			detail = domainErr.Message
		default:
			detail = http.StatusText(code)
			if debug {
				detail = err.Error()
			}
		}

		if code >= http.StatusInternalServerError {
			logger.WithError(err).Errorw("Internal server error",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
			)
		}

		if c.Response().Committed {
			return
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, httpHandlers.ErrorResponse{Detail: detail})
		}
		if err != nil {
			logger.Errorw("Error sending response", "error", err)
		}
	}
}
