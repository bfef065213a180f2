package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/AhmedAmineBejaoui/E-commerce/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	identityKey  = "identity"
	requestIDKey = "request_id"
)

// RequestLogger tags every request with an id and writes one log line once it
// completes.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()

		status := c.Writer.Status()
		var evt *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			evt = log.Error()
		case status >= http.StatusBadRequest:
			evt = log.Warn()
		default:
			evt = log.Info()
		}
		if len(c.Errors) > 0 {
			evt = evt.Str("errors", c.Errors.String())
		}

		evt.Str("request_id", requestID).
			Uint64("user_id", identity(c).UserID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request completed")
	}
}

// loadIdentity resolves the session cookie. Requests without a valid session
// continue as anonymous.
func (h *Handler) loadIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(h.cookie.Name)
		if err != nil || token == "" {
			c.Next()
			return
		}

		ident, err := h.sessions.Lookup(c.Request.Context(), token)
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			h.clearCookie(c)
		case err != nil:
			writeError(c, err)
			return
		default:
			c.Set(identityKey, ident)
		}
		c.Next()
	}
}

func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := identity(c).RequireUser(); err != nil {
			writeError(c, err)
			return
		}
		c.Next()
	}
}

func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := identity(c).RequireAdmin(); err != nil {
			writeError(c, err)
			return
		}
		c.Next()
	}
}

func identity(c *gin.Context) domain.Identity {
	if v, ok := c.Get(identityKey); ok {
		if ident, ok := v.(domain.Identity); ok {
			return ident
		}
	}
	return domain.Identity{}
}
