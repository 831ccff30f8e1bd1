// File: utils/constants.go
package utils

import "time"

// DialogueSessionPrefix is the prefix used for Redis dialogue session keys.
const DialogueSessionPrefix = "dialogue:"

// DialogueLockPrefix guards one client's conversation against concurrent events.
const DialogueLockPrefix = "dialogue-lock:"

// DialogueLockTTL bounds how long a crashed handler can hold a client's lease.
const DialogueLockTTL = 15 * time.Second

// NotificationTopicPrefix prefixes the FCM topic a client's device subscribes to.
const NotificationTopicPrefix = "client-"

// Gin context keys set by the gateway middleware.
const (
	ClientIDContextKey = "clientID"
	LoggerContextKey   = "logger"
)
