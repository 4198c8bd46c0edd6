package memory

import (
	"time"

	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/store"

	"github.com/patrickmn/go-cache"
)

const (
	// Idle sessions expire after an hour, the conversational horizon of a
	// claim intake call. A fresh Save restarts the clock.
	sessionTTL    = 1 * time.Hour
	purgeInterval = 10 * time.Minute
)

// SessionRepository keeps dialogue state in process memory. It is the
// default store; Redis takes over when configured for multi-process runs.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		cache: cache.New(sessionTTL, purgeInterval),
	}
}

func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
