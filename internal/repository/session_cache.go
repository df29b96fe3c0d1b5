package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/futig/medi-assistant/internal/entity"
	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps per-session state. Update serializes mutations of a
// single session; fn works on a copy that is committed only when fn succeeds.
type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) (*entity.Session, error)
	Get(ctx context.Context, id string) (*entity.Session, error)
	GetOrCreate(ctx context.Context, id string, newSession func() *entity.Session) (*entity.Session, error)
	Update(ctx context.Context, id string, fn func(session *entity.Session) error) (*entity.Session, error)
	Delete(ctx context.Context, id string) error
}

var _ SessionRepository = &SessionCache{}

type sessionEntry struct {
	// lock is held for the whole duration of an update, outbound calls included.
	lock sync.Mutex

	mu      sync.RWMutex
	session *entity.Session
}

func (e *sessionEntry) snapshot() *entity.Session {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.session.Clone()
}

func (e *sessionEntry) commit(session *entity.Session) {
	e.mu.Lock()
	e.session = session
	e.mu.Unlock()
}

// SessionCache implements SessionRepository in memory with a sliding TTL.
type SessionCache struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewSessionCache creates the store. onExpired, when set, is called with the
// session id after a session expires or is deleted.
func NewSessionCache(ttl, cleanupInterval time.Duration, onExpired func(sessionID string)) *SessionCache {
	c := cache.New(ttl, cleanupInterval)
	if onExpired != nil {
		c.OnEvicted(func(id string, _ interface{}) {
			onExpired(id)
		})
	}

	return &SessionCache{
		cache: c,
		ttl:   ttl,
	}
}

func (r *SessionCache) Create(_ context.Context, session *entity.Session) (*entity.Session, error) {
	entry := &sessionEntry{session: session.Clone()}
	if err := r.cache.Add(session.ID, entry, cache.DefaultExpiration); err != nil {
		return nil, fmt.Errorf("create session %s: %w", session.ID, err)
	}

	return entry.snapshot(), nil
}

func (r *SessionCache) Get(_ context.Context, id string) (*entity.Session, error) {
	entry, err := r.entry(id)
	if err != nil {
		return nil, err
	}

	return entry.snapshot(), nil
}

func (r *SessionCache) GetOrCreate(_ context.Context, id string, newSession func() *entity.Session) (*entity.Session, error) {
	if entry, err := r.entry(id); err == nil {
		return entry.snapshot(), nil
	}

	entry := &sessionEntry{session: newSession()}
	if err := r.cache.Add(id, entry, cache.DefaultExpiration); err != nil {
		// Lost the race against a concurrent create.
		existing, err := r.entry(id)
		if err != nil {
			return nil, err
		}
		return existing.snapshot(), nil
	}

	return entry.snapshot(), nil
}

func (r *SessionCache) Update(ctx context.Context, id string, fn func(session *entity.Session) error) (*entity.Session, error) {
	entry, err := r.entry(id)
	if err != nil {
		return nil, err
	}

	entry.lock.Lock()
	defer entry.lock.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	working := entry.snapshot()
	if err := fn(working); err != nil {
		return nil, err
	}

	entry.commit(working)
	r.touch(id, entry)

	return working.Clone(), nil
}

func (r *SessionCache) Delete(_ context.Context, id string) error {
	if _, err := r.entry(id); err != nil {
		return err
	}

	r.cache.Delete(id)
	return nil
}

// entry looks the session up and extends its lifetime.
func (r *SessionCache) entry(id string) (*sessionEntry, error) {
	value, ok := r.cache.Get(id)
	if !ok {
		return nil, entity.ErrSessionNotFound
	}

	entry := value.(*sessionEntry)
	r.touch(id, entry)

	return entry, nil
}

func (r *SessionCache) touch(id string, entry *sessionEntry) {
	// Replace fails if the session expired meanwhile; it must not come back.
	_ = r.cache.Replace(id, entry, cache.DefaultExpiration)
}
