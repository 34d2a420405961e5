// Package context carries request-scoped values between the transports and the
// use cases: the request id, a logger tagged with it, and the signed-in user.
package context

import (
	"context"
	"log/slog"

	"storefront/internal/domain/entity"

	"github.com/labstack/echo/v4"
)

// HeaderXRequestID is read from clients and echoed on every response.
const HeaderXRequestID = echo.HeaderXRequestID

type ctxKey struct{ name string }

var (
	requestIDKey = ctxKey{"request_id"}
	loggerKey    = ctxKey{"logger"}
)

// echo.Context keys
const (
	echoRequestIDKey = "request_id"
	echoUserKey      = "user"
)

// SetRequestID records the id on the echo context.
func SetRequestID(c echo.Context, requestID string) {
	c.Set(echoRequestIDKey, requestID)
}

// GetRequestID returns the id assigned by the request id middleware, falling
// back to the request context and finally the response header.
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(echoRequestIDKey).(string); ok && id != "" {
		return id
	}
	if id := GetRequestIDFromContext(c.Request().Context()); id != "" {
		return id
	}

	return c.Response().Header().Get(HeaderXRequestID)
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestIDFromContext returns "" outside a request.
func GetRequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)

	return id
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLoggerOrDefault prefers the request-scoped logger so that use case logs
// carry the request id.
func GetLoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}

	return fallback
}

// SetUser stores the authenticated user in echo.Context.
func SetUser(c echo.Context, user *entity.User) {
	c.Set(echoUserKey, user)
}

// GetUser returns the authenticated user, or nil on public routes.
func GetUser(c echo.Context) *entity.User {
	user, _ := c.Get(echoUserKey).(*entity.User)

	return user
}
