package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"batepapo/internal/core"
)

// StatusHandlers provides the heartbeat endpoint.
type StatusHandlers struct {
	registry *core.Registry
	log      *zerolog.Logger
}

// NewStatusHandlers creates a new status handlers instance.
func NewStatusHandlers(reg *core.Registry, logger *zerolog.Logger) *StatusHandlers {
	return &StatusHandlers{
		registry: reg,
		log:      logger,
	}
}

// Heartbeat refreshes the requester's last-seen timestamp.
// POST /status
func (h *StatusHandlers) Heartbeat(c *gin.Context) {
	user := requesterName(c)

	err := h.registry.Touch(c.Request.Context(), user)
	switch {
	case errors.Is(err, core.ErrNotOnline):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "participant not online"})
	case err != nil:
		h.log.Error().Err(err).Str("user", user).Msg("failed to touch participant")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	default:
		c.Status(http.StatusOK)
	}
}
