package http

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HeaderUser is the request header carrying the requester's participant name.
const HeaderUser = "User"

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// requesterName extracts the participant identity from the User header.
// Returns "" when the header is missing or blank.
func requesterName(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(HeaderUser))
}

// LoggerMiddleware creates a middleware that logs HTTP requests.
func LoggerMiddleware(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Process request
		c.Next()

		// Log after request
		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("http request")
	}
}
