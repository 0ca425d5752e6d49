package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"batepapo/internal/core"
)

// MessageHandlers provides HTTP handlers for the message endpoints.
type MessageHandlers struct {
	registry *core.Registry
	messages *core.MessageLog
	log      *zerolog.Logger
}

// NewMessageHandlers creates a new message handlers instance.
func NewMessageHandlers(reg *core.Registry, msgs *core.MessageLog, logger *zerolog.Logger) *MessageHandlers {
	return &MessageHandlers{
		registry: reg,
		messages: msgs,
		log:      logger,
	}
}

// PostMessageRequest represents the post message request body. Clients may
// only author room broadcasts and private messages; status notices are
// system-generated.
type PostMessageRequest struct {
	To   string `json:"to" binding:"required,min=1"`
	Text string `json:"text" binding:"required,min=1"`
	Kind string `json:"kind" binding:"required,oneof=message private_message"`
}

// MessageResponse represents a message in API responses.
type MessageResponse struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
	Kind string `json:"kind"`
	Time string `json:"time"`
}

// Post appends a message authored by the requester.
// POST /messages
func (h *MessageHandlers) Post(c *gin.Context) {
	from := requesterName(c)
	if from == "" {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "missing User header"})
		return
	}

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid post message request")
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid request body"})
		return
	}

	registered, err := h.registry.Exists(c.Request.Context(), from)
	if err != nil {
		h.log.Error().Err(err).Str("from", from).Msg("failed to check sender")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	if !registered {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "sender not registered"})
		return
	}

	msg, err := h.messages.Append(c.Request.Context(), core.Message{
		From: from,
		To:   req.To,
		Text: req.Text,
		Kind: req.Kind,
	})
	if err != nil {
		h.log.Error().Err(err).Str("from", from).Msg("failed to append message")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, toMessageResponse(msg))
}

// List returns the messages visible to the requester, optionally truncated
// to the last ?limit entries.
// GET /messages
func (h *MessageHandlers) List(c *gin.Context) {
	user := requesterName(c)
	if user == "" {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "missing User header"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid limit"})
			return
		}
		limit = parsed
	}

	msgs, err := h.messages.VisibleTo(c.Request.Context(), user, limit)
	if err != nil {
		h.log.Error().Err(err).Str("user", user).Msg("failed to list messages")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		response = append(response, toMessageResponse(m))
	}

	c.JSON(http.StatusOK, response)
}

// Delete removes a message authored by the requester.
// DELETE /messages/:id
func (h *MessageHandlers) Delete(c *gin.Context) {
	id := c.Param("id")
	user := requesterName(c)
	if id == "" || user == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing message id or User header"})
		return
	}

	err := h.messages.Delete(c.Request.Context(), id, user)
	switch {
	case errors.Is(err, core.ErrMessageNotFound):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "message not found"})
	case errors.Is(err, core.ErrNotSender):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not the message sender"})
	case err != nil:
		h.log.Error().Err(err).Str("message_id", id).Msg("failed to delete message")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	default:
		c.Status(http.StatusOK)
	}
}

func toMessageResponse(m core.Message) MessageResponse {
	return MessageResponse{
		ID:   m.ID,
		From: m.From,
		To:   m.To,
		Text: m.Text,
		Kind: m.Kind,
		Time: m.Time,
	}
}
