package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"batepapo/internal/config"
	"batepapo/internal/core"
)

// NewServer builds an HTTP server with the chat API routes.
func NewServer(reg *core.Registry, msgs *core.MessageLog, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	participantHandlers := NewParticipantHandlers(reg, msgs, logger)
	messageHandlers := NewMessageHandlers(reg, msgs, logger)
	statusHandlers := NewStatusHandlers(reg, logger)

	router.GET("/health", healthHandler)
	router.POST("/participants", participantHandlers.Join)
	router.GET("/participants", participantHandlers.List)
	router.POST("/messages", messageHandlers.Post)
	router.GET("/messages", messageHandlers.List)
	router.DELETE("/messages/:id", messageHandlers.Delete)
	router.POST("/status", statusHandlers.Heartbeat)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
