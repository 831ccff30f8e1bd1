package middleware

import (
	"net/http"
	"strings"

	"medibook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ClientIDKey is the gin context key holding the authenticated client identity.
const ClientIDKey = utils.ClientIDContextKey

// GatewayAuthMiddleware accepts a bearer token signed by the chat gateway and
// stores its subject as the client identity.
func GatewayAuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		clientID, err := utils.ExtractIDFromToken(secret, tokenString)
		if err != nil {
			zap.L().Debug("Gateway token rejected", zap.String("ip", getClientIP(c)), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}

		c.Set(ClientIDKey, clientID)
		c.Set(utils.LoggerContextKey, zap.L().With(zap.String("clientId", clientID)))
		c.Next()
	}
}
