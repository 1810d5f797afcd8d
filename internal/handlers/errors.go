package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/rdplines/internal/models"
	"github.com/soltixdb/rdplines/internal/services"
)

// statusFor maps a service error code to an HTTP status
func statusFor(code string) int {
	switch code {
	case services.CodeInvalidCSV,
		services.CodeEmptyCSV,
		services.CodeInsufficientData,
		services.CodeInvalidEpsilon,
		services.CodeInvalidPoints,
		services.CodeInvalidSeries,
		services.CodeInvalidConfidenceLevel:
		return fiber.StatusBadRequest
	case services.CodeTooManyPoints:
		return fiber.StatusRequestEntityTooLarge
	case services.CodeArtifactNotFound:
		return fiber.StatusNotFound
	case services.CodeArtifactExpired:
		return fiber.StatusGone
	default:
		return fiber.StatusInternalServerError
	}
}

// writeError renders err as an error envelope
func (h *Handler) writeError(c *fiber.Ctx, err error) error {
	var svcErr *services.ServiceError
	if errors.As(err, &svcErr) {
		return c.Status(statusFor(svcErr.Code)).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    svcErr.Code,
				Message: svcErr.Message,
				Details: svcErr.Details,
			},
		})
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return c.Status(fiber.StatusGatewayTimeout).JSON(models.NewErrorResponse("TIMEOUT", "request timed out"))
	}
	if errors.Is(err, context.Canceled) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.NewErrorResponse("CANCELED", "request canceled"))
	}

	h.logger.WithContext(c.UserContext()).Error("Unhandled error", "error", err, "path", c.Path())
	return c.Status(fiber.StatusInternalServerError).JSON(models.NewErrorResponse(services.CodeInternalError, "internal server error"))
}

func badRequest(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.NewErrorResponse(code, message))
}
