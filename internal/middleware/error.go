package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"
	"github.com/soltixdb/rdplines/internal/logging"
	"github.com/soltixdb/rdplines/internal/models"
)

// ErrorHandler returns the app-wide error handler. Handlers render their own
// domain errors; this covers errors returned to fiber, including body limit
// and routing errors.
func ErrorHandler(logger *logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
			message = fe.Message
		}
		if status == fiber.StatusRequestEntityTooLarge {
			message = "Request body exceeds the configured limit"
		}

		log := logger.WithContext(c.UserContext())
		fields := []interface{}{"path", c.Path(), "method", c.Method(), "status", status, "error", err}
		if status >= fiber.StatusInternalServerError {
			log.Error("Request error", fields...)
		} else {
			log.Warn("Request error", fields...)
		}

		return c.Status(status).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    statusCode(status),
				Message: message,
				Path:    c.Path(),
			},
		})
	}
}

// statusCode turns an HTTP status into an error code, e.g. 413 becomes
// REQUEST_ENTITY_TOO_LARGE
func statusCode(status int) string {
	text := fiberutils.StatusMessage(status)
	if text == "" {
		return "ERROR"
	}
	text = strings.NewReplacer(" ", "_", "-", "_", "'", "").Replace(text)
	return strings.ToUpper(text)
}
