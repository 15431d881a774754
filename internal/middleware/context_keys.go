package middleware

import "github.com/gin-gonic/gin"

// actorKey is the key used to store the authenticated caller in the request context.
const actorKey = contextKey("actor")

// GetActorFromContext returns the authenticated caller recorded by AuthMiddleware.
func GetActorFromContext(c *gin.Context) (string, bool) {
	actor, ok := c.Request.Context().Value(actorKey).(string)
	if !ok || actor == "" {
		return "", false
	}
	return actor, true
}
