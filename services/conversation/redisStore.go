package conversation

import (
	"context"
	"encoding/json"
	"time"

	"medibook/models"
	"medibook/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	lockRetryInterval = 50 * time.Millisecond
	lockMaxWait       = 5 * time.Second
)

// Deletes the lock only if it still carries our token.
var unlockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisSessionStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSessionStore{client: client, ttl: ttl, logger: logger}
}

func (s *RedisSessionStore) Get(ctx context.Context, clientID string) (*models.DialogueSession, error) {
	key := utils.DialogueSessionPrefix + clientID
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session models.DialogueSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		// A record we cannot read is treated as no conversation at all.
		s.logger.Warn("Discarding unreadable dialogue session", zap.String("clientId", clientID), zap.Error(err))
		return nil, nil
	}
	return &session, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, session *models.DialogueSession) error {
	key := utils.DialogueSessionPrefix + session.ClientID
	stored := *session
	stored.UpdatedAt = time.Now()
	b, err := json.Marshal(stored)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, b, s.ttl).Err()
}

func (s *RedisSessionStore) Clear(ctx context.Context, clientID string) error {
	key := utils.DialogueSessionPrefix + clientID
	return s.client.Del(ctx, key).Err()
}

func (s *RedisSessionStore) Acquire(ctx context.Context, clientID string) (func(), error) {
	key := utils.DialogueLockPrefix + clientID
	token := uuid.New().String()
	deadline := time.Now().Add(lockMaxWait)

	for {
		ok, err := s.client.SetNX(ctx, key, token, utils.DialogueLockTTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, ErrBusy
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}

	return func() {
		// The caller's context may already be done; the unlock must still happen.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := unlockScript.Run(releaseCtx, s.client, []string{key}, token).Err(); err != nil {
			s.logger.Warn("Failed to release dialogue lock", zap.String("clientId", clientID), zap.Error(err))
		}
	}, nil
}
