package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/rdplines/internal/models"
	"github.com/soltixdb/rdplines/internal/services"
	"github.com/soltixdb/rdplines/internal/utils"
)

// SimplifyPoints handles POST /api/simplify/points
func (h *Handler) SimplifyPoints(c *fiber.Ctx) error {
	var req models.PointsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "INVALID_REQUEST", "invalid request body: "+err.Error())
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, services.CodeInvalidPoints, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), utils.DefaultRequestTimeout)
	defer cancel()

	res, err := h.simplifyService.SimplifyPoints(ctx, req.Points, req.Epsilon)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(models.PointsResponse{
		Points:          res.Points,
		Indices:         res.Indices,
		Epsilon:         res.Epsilon,
		AutoEpsilon:     res.AutoEpsilon,
		OriginalCount:   len(req.Points),
		SimplifiedCount: len(res.Points),
	})
}
