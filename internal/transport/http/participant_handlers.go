package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"batepapo/internal/core"
)

// ParticipantHandlers provides HTTP handlers for the participant endpoints.
type ParticipantHandlers struct {
	registry *core.Registry
	messages *core.MessageLog
	log      *zerolog.Logger
}

// NewParticipantHandlers creates a new participant handlers instance.
func NewParticipantHandlers(reg *core.Registry, msgs *core.MessageLog, logger *zerolog.Logger) *ParticipantHandlers {
	return &ParticipantHandlers{
		registry: reg,
		messages: msgs,
		log:      logger,
	}
}

// JoinRequest represents the join request body.
type JoinRequest struct {
	Name string `json:"name" binding:"required,min=1"`
}

// ParticipantResponse represents a participant in API responses.
type ParticipantResponse struct {
	Name     string `json:"name"`
	LastSeen int64  `json:"lastSeen"`
}

// Join registers a new participant and appends the join notice.
// POST /participants
func (h *ParticipantHandlers) Join(c *gin.Context) {
	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid join request")
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid request body"})
		return
	}

	p, err := h.registry.Join(c.Request.Context(), req.Name)
	if err != nil {
		if errors.Is(err, core.ErrNameTaken) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "participant name already taken"})
			return
		}
		h.log.Error().Err(err).Str("name", req.Name).Msg("failed to join participant")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	// Second, independent write: the participant is registered even if the
	// join notice cannot be appended.
	if err := h.messages.AppendJoined(c.Request.Context(), p.Name); err != nil {
		h.log.Warn().Err(err).Str("name", p.Name).Msg("failed to append join notice")
	}

	c.JSON(http.StatusCreated, ParticipantResponse{Name: p.Name, LastSeen: p.LastSeen})
}

// List returns all registered participants.
// GET /participants
func (h *ParticipantHandlers) List(c *gin.Context) {
	participants, err := h.registry.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list participants")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]ParticipantResponse, 0, len(participants))
	for _, p := range participants {
		response = append(response, ParticipantResponse{Name: p.Name, LastSeen: p.LastSeen})
	}

	c.JSON(http.StatusOK, response)
}
