package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS lets other front ends call the JSON search API. An origin of "*"
// in allowedOrigins admits any caller. Preflight OPTIONS requests end here
// with 204.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	anyOrigin := false
	originSet := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			anyOrigin = true
			continue
		}
		originSet[o] = struct{}{}
	}

	allowed := func(origin string) bool {
		if origin == "" {
			return false
		}
		if anyOrigin {
			return true
		}
		_, ok := originSet[origin]
		return ok
	}

	return func(c *gin.Context) {
		// The response differs per Origin, so caches must key on it.
		c.Writer.Header().Add("Vary", "Origin")

		if origin := c.GetHeader("Origin"); allowed(origin) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "X-API-Key, Content-Type, "+RequestIDHeader)
			h.Set("Access-Control-Expose-Headers", RequestIDHeader)
			h.Set("Access-Control-Max-Age", "86400")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
