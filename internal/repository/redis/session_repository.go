package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/pkg/logger"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/store"
)

const (
	sessionTTL    = 1 * time.Hour
	sessionPrefix = "assistant:session:"
	opTimeout     = 2 * time.Second
)

// SessionRepository keeps dialogue state in Redis so sessions survive
// restarts and can be shared between replicas. The SessionStore contract
// has no error channel: a failed read counts as a session miss and a
// failed write is logged and dropped.
type SessionRepository struct {
	rdb *redis.Client
	log logger.ILogger
}

func NewSessionRepository(rdb *redis.Client, log logger.ILogger) *SessionRepository {
	return &SessionRepository{
		rdb: rdb,
		log: log,
	}
}

func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	data, err := r.rdb.Get(ctx, sessionPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		r.log.Warn("SessionRepository", "Redis read failed, treating as miss", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return nil, false
	}

	var session store.Session
	if err := json.Unmarshal(data, &session); err != nil {
		r.log.Warn("SessionRepository", "Stored session unreadable, starting fresh", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return nil, false
	}
	return &session, true
}

func (r *SessionRepository) Save(session *store.Session) {
	data, err := json.Marshal(session)
	if err != nil {
		r.log.Error("SessionRepository", "Session marshal failed", map[string]interface{}{
			"session_id": session.ID,
			"error":      err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := r.rdb.Set(ctx, sessionPrefix+session.ID, data, sessionTTL).Err(); err != nil {
		r.log.Error("SessionRepository", "Session write failed", map[string]interface{}{
			"session_id": session.ID,
			"error":      err.Error(),
		})
	}
}

func (r *SessionRepository) Delete(sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := r.rdb.Del(ctx, sessionPrefix+sessionID).Err(); err != nil {
		r.log.Warn("SessionRepository", "Session delete failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
}
