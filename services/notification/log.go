package notification

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier only writes the message to the log.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, clientID, text string) error {
	n.logger.Info("Notification", zap.String("clientId", clientID), zap.String("text", text))
	return nil
}
