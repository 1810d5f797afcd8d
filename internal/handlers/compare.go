package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/rdplines/internal/models"
	"github.com/soltixdb/rdplines/internal/services"
	"github.com/soltixdb/rdplines/internal/stats"
)

// Compare handles POST /api/compare
func (h *Handler) Compare(c *fiber.Ctx) error {
	var req models.CompareRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "INVALID_REQUEST", "invalid request body: "+err.Error())
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, services.CodeInvalidSeries, err.Error())
	}

	rep, err := h.simplifyService.Compare(services.CompareRequest{
		Original:        stats.Series(req.Original),
		Simplified:      stats.Series(req.Simplified),
		ConfidenceLevel: req.ConfidenceLevel,
	})
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(rep)
}
