package conversation

import (
	"context"
	"sync"
	"time"

	"medibook/models"
)

// MemorySessionStore keeps conversations in process. Records are cloned on the
// way in and out.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]models.DialogueSession
	held     map[string]chan struct{}
	ttl      time.Duration
	now      func() time.Time
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]models.DialogueSession),
		held:     make(map[string]chan struct{}),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *MemorySessionStore) Get(_ context.Context, clientID string) (*models.DialogueSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[clientID]
	if !ok {
		return nil, nil
	}
	if s.ttl > 0 && s.now().Sub(session.UpdatedAt) > s.ttl {
		delete(s.sessions, clientID)
		return nil, nil
	}
	out := cloneSession(session)
	return &out, nil
}

func (s *MemorySessionStore) Save(_ context.Context, session *models.DialogueSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := cloneSession(*session)
	stored.UpdatedAt = s.now()
	s.sessions[session.ClientID] = stored
	return nil
}

func (s *MemorySessionStore) Clear(_ context.Context, clientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, clientID)
	return nil
}

func (s *MemorySessionStore) Acquire(ctx context.Context, clientID string) (func(), error) {
	for {
		s.mu.Lock()
		wait, busy := s.held[clientID]
		if !busy {
			done := make(chan struct{})
			s.held[clientID] = done
			s.mu.Unlock()

			var once sync.Once
			return func() {
				once.Do(func() {
					s.mu.Lock()
					delete(s.held, clientID)
					s.mu.Unlock()
					close(done)
				})
			}, nil
		}
		s.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func cloneSession(in models.DialogueSession) models.DialogueSession {
	out := in
	out.OfferedDays = make([]models.OfferedDay, len(in.OfferedDays))
	for i, day := range in.OfferedDays {
		out.OfferedDays[i] = models.OfferedDay{Date: day.Date, Sessions: append([]string(nil), day.Sessions...)}
	}
	out.OfferedSessions = append([]string(nil), in.OfferedSessions...)
	out.Bookings = append([]models.Booking(nil), in.Bookings...)
	return out
}
