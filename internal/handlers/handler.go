package handlers

import (
	"github.com/soltixdb/rdplines/internal/logging"
	"github.com/soltixdb/rdplines/internal/services"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// Handler contains all HTTP handlers
type Handler struct {
	logger          *logging.Logger
	simplifyService *services.SimplifyService
	storage         string
}

// New creates a new handler instance. storage describes the artifact backend
// for the health endpoint.
func New(logger *logging.Logger, simplifyService *services.SimplifyService, storage string) *Handler {
	return &Handler{
		logger:          logger,
		simplifyService: simplifyService,
		storage:         storage,
	}
}
