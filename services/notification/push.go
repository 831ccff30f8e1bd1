package notification

import (
	"context"
	"fmt"

	"medibook/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

const pushTitle = "Appointment update"

// PushNotifier sends through Firebase Cloud Messaging. Each client's device
// subscribes to its own topic, "client-<id>".
type PushNotifier struct {
	client MessagingClient
	logger *zap.Logger
}

func NewPushNotifier(client MessagingClient, logger *zap.Logger) *PushNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PushNotifier{client: client, logger: logger}
}

func (n *PushNotifier) Notify(ctx context.Context, clientID, text string) error {
	msg := &messaging.Message{
		Topic: utils.NotificationTopicPrefix + clientID,
		Notification: &messaging.Notification{
			Title: pushTitle,
			Body:  text,
		},
		Data: map[string]string{"clientId": clientID},
	}
	id, err := n.client.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("fcm send to %s failed: %w", clientID, err)
	}
	n.logger.Info("Push notification sent", zap.String("clientId", clientID), zap.String("messageId", id))
	return nil
}
