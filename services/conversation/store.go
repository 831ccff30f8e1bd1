package conversation

import (
	"context"
	"errors"

	"medibook/models"
)

// ErrBusy means another event for the same client is still being handled.
var ErrBusy = errors.New("conversation is busy")

// SessionStore keeps one in-progress conversation per client.
type SessionStore interface {
	// Get returns nil when the client has no conversation in progress.
	Get(ctx context.Context, clientID string) (*models.DialogueSession, error)
	Save(ctx context.Context, session *models.DialogueSession) error
	Clear(ctx context.Context, clientID string) error
	// Acquire waits until no other event for clientID is being handled and
	// returns the function that lets the next one in.
	Acquire(ctx context.Context, clientID string) (release func(), err error)
}
