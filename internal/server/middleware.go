package server

import (
	"strings"
	"time"

	"helpmarket/internal/auth"
	"helpmarket/services/market/helpers"
	"helpmarket/utils"

	"github.com/gin-gonic/gin"
)

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	utils.Info("HTTP Request", map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"latency": time.Since(start).String(),
	})
}

// AuthenticationMiddleware resolves the bearer token into an identity.
// Requests without a valid session continue anonymously; handlers that
// need a caller reject them.
func AuthenticationMiddleware(authn auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if ok {
			if identity, found := authn.CurrentUser(token); found {
				helpers.SetIdentity(c, token, identity)
			} else {
				utils.Debug("unknown session token", map[string]any{"path": c.Request.URL.Path})
			}
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
