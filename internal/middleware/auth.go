// Package middleware contains Gin middleware functions.
// Middleware runs before (or after) the route handler and calls c.Next()
// to proceed or c.Abort() to stop the chain.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIKeyAuth returns middleware that validates API keys on the JSON API.
// The key can be provided via X-API-Key header or api_key query param.
// With no keys configured the API is open, matching the browser UI which
// never carries a key.
func APIKeyAuth(validKeys []string) gin.HandlerFunc {
	keySet := keySetOf(validKeys)

	return func(c *gin.Context) {
		if len(keySet) == 0 {
			c.Next()
			return
		}

		key := requestKey(c)

		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing API key",
			})
			return
		}

		if _, ok := keySet[key]; !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid API key",
			})
			return
		}

		// Downstream logging reads the key's presence from the context.
		c.Set("api_key", key)
		c.Next()
	}
}

// AdminKeyAuth returns middleware that validates admin API keys.
// Unlike APIKeyAuth it fails closed: no admin keys means no admin access.
func AdminKeyAuth(adminKeys []string) gin.HandlerFunc {
	keySet := keySetOf(adminKeys)

	return func(c *gin.Context) {
		key := requestKey(c)

		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing admin API key",
			})
			return
		}

		if _, ok := keySet[key]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "invalid admin API key",
			})
			return
		}

		c.Set("api_key", key)
		c.Next()
	}
}

// keySetOf builds a set for O(1) lookups, skipping blank entries that an
// empty env var would otherwise turn into a valid key.
func keySetOf(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		set[k] = struct{}{}
	}
	return set
}

func requestKey(c *gin.Context) string {
	if key := c.GetHeader("X-API-Key"); key != "" {
		return key
	}
	return c.Query("api_key")
}
