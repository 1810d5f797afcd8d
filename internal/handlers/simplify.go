package handlers

import (
	"context"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/rdplines/internal/models"
	"github.com/soltixdb/rdplines/internal/services"
	"github.com/soltixdb/rdplines/internal/utils"
)

// Simplify handles POST /api/simplify
// Accepts a multipart CSV upload in the "file" field and an optional epsilon
func (h *Handler) Simplify(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "INVALID_REQUEST", "No file part in the request")
	}
	if fh.Filename == "" {
		return badRequest(c, "INVALID_REQUEST", "No selected file")
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".csv") {
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(models.NewErrorResponse(
			"UNSUPPORTED_FILE_TYPE", "only .csv files are accepted"))
	}

	epsilon, err := epsilonParam(c)
	if err != nil {
		return badRequest(c, services.CodeInvalidEpsilon, err.Error())
	}

	f, err := fh.Open()
	if err != nil {
		return badRequest(c, "INVALID_REQUEST", "failed to open uploaded file: "+err.Error())
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return badRequest(c, "INVALID_REQUEST", "failed to read uploaded file: "+err.Error())
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), utils.DefaultRequestTimeout)
	defer cancel()

	res, err := h.simplifyService.Simplify(ctx, services.SimplifyRequest{
		Filename: fh.Filename,
		Data:     data,
		Epsilon:  epsilon,
	})
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(newSimplifyResponse(res))
}

// epsilonParam reads epsilon from the form, falling back to the query string
func epsilonParam(c *fiber.Ctx) (*float64, error) {
	raw := strings.TrimSpace(c.FormValue("epsilon"))
	if raw == "" {
		raw = strings.TrimSpace(c.Query("epsilon"))
	}
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "epsilon must be a positive number, got "+strconv.Quote(raw))
	}
	return &v, nil
}

func newSimplifyResponse(res *services.SimplifyResult) *models.SimplifyResponse {
	ds := res.Dataset
	labels, values := ds.Aligned(res.Rows)

	return &models.SimplifyResponse{
		ID:      res.ID,
		Columns: ds.Columns,
		Row1:    ds.Labels,
		Row2:    ds.Values,
		Row1RDP: labels,
		Row2RDP: values,

		FileSize:     res.FileSize,
		FileType:     utils.SizeUnit(res.FileSize),
		FileSizeText: utils.HumanBytes(res.FileSize),

		NewFileName:     res.NewFilename,
		NewFileSize:     res.NewFileSize,
		NewFileType:     utils.SizeUnit(res.NewFileSize),
		NewFileSizeText: utils.HumanBytes(res.NewFileSize),

		DiffFileSize:     res.DiffFileSize,
		DiffFileType:     utils.SizeUnit(res.DiffFileSize),
		DiffFileSizeText: utils.HumanBytes(res.DiffFileSize),

		RunningTimeOrig: res.SequentialTime.Seconds(),
		RunningTimeSimp: res.ParallelTime.Seconds(),

		Epsilon:          res.Epsilon,
		AutoEpsilon:      res.AutoEpsilon,
		OriginalPoints:   res.OriginalPoints,
		SimplifiedPoints: res.SimplifiedPoints,

		DownloadURL: "/api/download/" + res.ID,
		ExpiresAt:   res.ExpiresAt.Format(time.RFC3339),
		Report:      res.Report,
	}
}
