package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Download handles GET /api/download/:id
// Serves a stored simplified CSV as an attachment
func (h *Handler) Download(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "INVALID_REQUEST", "id is required")
	}

	a, err := h.simplifyService.Artifact(c.UserContext(), id)
	if err != nil {
		return h.writeError(c, err)
	}

	c.Set(fiber.HeaderContentType, a.ContentType)
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+strconv.Quote(a.Filename))
	return c.Send(a.Data)
}
