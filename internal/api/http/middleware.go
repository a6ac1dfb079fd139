package http

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/centraldesk/helpdesk-service/internal/api/dto"
	"github.com/centraldesk/helpdesk-service/internal/observability"
	"github.com/centraldesk/helpdesk-service/pkg/apperr"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics))
	app.Use(observability.RequestLogger(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorHandlingMiddleware maps application errors to the response envelope.
// Only this layer translates error kinds to HTTP status codes.
func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperr.Internal("panic recovered", nil)
			}
			if err != nil {
				status := apperr.HTTPStatus(err)
				metrics.RecordError(c.Path(), c.Method(), status)
				if status >= 500 {
					logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
				}
				c.Status(status)
				_ = c.JSON(dto.Fail(apperr.PublicMessage(err)))
				err = nil
			}
		}()
		return c.Next()
	}
}
