package handlers

import (
	"net/http"

	"medibook/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the last dependency snapshot taken by the health monitor.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": status, "message": "Hi, I'm medibook"})
}
