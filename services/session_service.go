package services

import (
	"context"
	"fmt"
	"modfy_server/lib"
	"modfy_server/structs"
	"modfy_server/structs/tables"
	"sync"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// SessionStore persists sessions by id. Get returns lib.ErrNotFound for missing or expired sessions.
type SessionStore interface {
	Get(ctx context.Context, id string) (*structs.Session, error)
	Save(ctx context.Context, session *structs.Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
	// DeleteUser drops every session bound to userID.
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

const (
	sessionKeyPrefix     = "session:"
	userSessionKeyPrefix = "user_sessions:"
)

type RedisSessionStore struct {
	cache *CacheService
}

func NewRedisSessionStore(cache *CacheService) *RedisSessionStore {
	return &RedisSessionStore{cache: cache}
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*structs.Session, error) {
	session, err := getJSON[structs.Session](ctx, s.cache, sessionKeyPrefix+id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, lib.ErrNotFound
	}
	return session, nil
}

// Save also indexes the id under its user so DeleteUser can find it. Index entries may outlive
// their session; deleting a missing key is harmless.
func (s *RedisSessionStore) Save(ctx context.Context, session *structs.Session, ttl time.Duration) error {
	if err := setJSON(ctx, s.cache, sessionKeyPrefix+session.ID, session, ttl); err != nil {
		return err
	}
	if session.UserID == nil {
		return nil
	}
	return s.cache.AddToSet(ctx, userSessionKeyPrefix+session.UserID.String(), ttl, session.ID)
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, sessionKeyPrefix+id)
}

func (s *RedisSessionStore) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	index := userSessionKeyPrefix + userID.String()
	ids, err := s.cache.SetMembers(ctx, index)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKeyPrefix+id)
	}
	return s.cache.Delete(ctx, append(keys, index)...)
}

// MemorySessionStore keeps sessions in process. Expired entries are dropped on read.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]structs.Session
	now      func() time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]structs.Session),
		now:      time.Now,
	}
}

func (s *MemorySessionStore) Get(_ context.Context, id string) (*structs.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, lib.ErrNotFound
	}
	if !session.ExpiresAt.IsZero() && s.now().After(session.ExpiresAt) {
		delete(s.sessions, id)
		return nil, lib.ErrNotFound
	}
	return &session, nil
}

func (s *MemorySessionStore) Save(_ context.Context, session *structs.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *session
	if stored.ExpiresAt.IsZero() {
		stored.ExpiresAt = s.now().Add(ttl)
	}
	s.sessions[session.ID] = stored
	return nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

func (s *MemorySessionStore) DeleteUser(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, session := range s.sessions {
		if session.UserID != nil && *session.UserID == userID {
			delete(s.sessions, id)
		}
	}
	return nil
}

type SessionService struct {
	logger *gecho.Logger
	store  SessionStore
	ttl    time.Duration
}

func NewSessionService(logger *gecho.Logger, cfg *structs.Config, store SessionStore) *SessionService {
	return &SessionService{
		logger: logger,
		store:  store,
		ttl:    cfg.Auth.SessionTTL,
	}
}

func (ss *SessionService) TTL() time.Duration {
	return ss.ttl
}

// Create starts a new session, anonymous when user is nil.
func (ss *SessionService) Create(ctx context.Context, user *tables.User) (*structs.Session, error) {
	id, err := lib.GenerateRandomToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &structs.Session{
		ID:        id,
		CreatedAt: now,
		ExpiresAt: now.Add(ss.ttl),
	}
	attachUser(session, user)

	if err := ss.store.Save(ctx, session, ss.ttl); err != nil {
		ss.logger.Error("Failed to save session", gecho.Field("error", err))
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return session, nil
}

func (ss *SessionService) Get(ctx context.Context, id string) (*structs.Session, error) {
	if id == "" {
		return nil, lib.ErrNotFound
	}
	return ss.store.Get(ctx, id)
}

// Save writes the session back with the time it has left.
func (ss *SessionService) Save(ctx context.Context, session *structs.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return lib.ErrExpiredToken
	}
	return ss.store.Save(ctx, session, ttl)
}

func (ss *SessionService) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return ss.store.Delete(ctx, id)
}

// DestroyUser signs userID out everywhere.
func (ss *SessionService) DestroyUser(ctx context.Context, userID uuid.UUID) error {
	if err := ss.store.DeleteUser(ctx, userID); err != nil {
		ss.logger.Error("Failed to destroy user sessions", gecho.Field("error", err), gecho.Field("user_id", userID))
		return fmt.Errorf("failed to destroy sessions: %w", err)
	}
	return nil
}

// Rotate replaces the session id, binding it to user. The old id stops resolving.
func (ss *SessionService) Rotate(ctx context.Context, old *structs.Session, user *tables.User) (*structs.Session, error) {
	session, err := ss.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	if old != nil {
		if err := ss.store.Delete(ctx, old.ID); err != nil {
			ss.logger.Warn("Failed to delete rotated session", gecho.Field("error", err))
		}
	}
	return session, nil
}

func attachUser(session *structs.Session, user *tables.User) {
	if user == nil {
		session.UserID = nil
		session.User = nil
		return
	}
	id := user.ID
	session.UserID = &id
	session.User = &structs.SessionUser{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      string(user.Role),
	}
}
