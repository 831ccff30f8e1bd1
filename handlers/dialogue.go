package handlers

import (
	"context"
	"errors"
	"net/http"

	"medibook/middleware"
	"medibook/models"
	"medibook/services/conversation"
	"medibook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DialogueEngine handles one client message.
type DialogueEngine interface {
	Handle(ctx context.Context, ev conversation.Event) (models.DialogueReply, error)
}

type dialogueEventRequest struct {
	Text string `json:"text" binding:"required"`
}

// NewDialogueEventHandler feeds one gateway message into the conversation engine.
func NewDialogueEventHandler(engine DialogueEngine) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)
		clientID := c.GetString(middleware.ClientIDKey)
		if clientID == "" {
			utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "missing client identity")
			return
		}

		var req dialogueEventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
			return
		}

		reply, err := engine.Handle(c.Request.Context(), conversation.Event{ClientID: clientID, Text: req.Text})
		switch {
		case err == nil:
			c.JSON(http.StatusOK, reply)
		case errors.Is(err, conversation.ErrBusy):
			utils.JSONError(c, http.StatusConflict, "Previous message still in progress", "retry shortly")
		case errors.Is(err, context.Canceled):
			// Client went away.
			c.Status(499)
		default:
			logger.Error("Dialogue event failed", zap.String("clientId", clientID), zap.Error(err))
			utils.JSONError(c, http.StatusServiceUnavailable, "Service temporarily unavailable", "please try again later")
		}
	}
}
