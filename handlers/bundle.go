// File: handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the endpoint handlers and what their routes need.
type HandlerBundle struct {
	GatewaySecret   []byte
	MaxEventsPerMin int

	// Dialogue endpoints
	DialogueEventHandler gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}
