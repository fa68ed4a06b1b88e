package services

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"kitchen-menu/models"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Registry keeps one Session per chat and closes sessions that stay idle past the TTL.
// A closed session's catalog is gone; the next message starts from the seed menu.
//
// live mirrors the cache. go-cache hides expired entries from Get before its janitor
// evicts them, so live is what guarantees every session is closed exactly once.
type Registry struct {
	cache   *cache.Cache
	live    map[string]*Session
	seed    []models.MenuItem
	newID   IDGenerator
	journal Journal
	log     *zap.Logger
	mu      sync.Mutex
}

func NewRegistry(ttl time.Duration, seed []models.MenuItem, journal Journal, log *zap.Logger) *Registry {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if log == nil {
		log = zap.NewNop()
	}
	cleanup := ttl / 6
	if cleanup < time.Minute {
		cleanup = time.Minute
	}
	r := &Registry{
		cache:   cache.New(ttl, cleanup),
		live:    make(map[string]*Session),
		seed:    seed,
		newID:   NewItemID,
		journal: journal,
		log:     log.Named("registry"),
	}
	r.cache.OnEvicted(func(key string, v interface{}) {
		// Runs inside Delete calls made under r.mu; retire in the background.
		go func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.retire(key, v.(*Session), "session evicted")
		}()
	})
	return r
}

// retire forgets s and closes it in the background, unless key already maps to a newer
// session. Callers hold r.mu.
func (r *Registry) retire(key string, s *Session, reason string) bool {
	if r.live[key] != s {
		return false
	}
	delete(r.live, key)
	activeSessions.Dec()
	r.log.Info(reason, zap.String("session_id", key))
	// Close waits for queued intents; do not block the caller.
	go s.Close()
	return true
}

// Session returns the chat's session, creating it from the seed menu on first use.
// Each lookup refreshes the idle timer.
func (r *Registry) Session(chatID int64) (*Session, error) {
	key := strconv.FormatInt(chatID, 10)

	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.cache.Get(key); ok {
		s := v.(*Session)
		r.cache.SetDefault(key, s)
		return s, nil
	}
	if expired, ok := r.live[key]; ok {
		r.retire(key, expired, "session expired")
	}
	catalog, err := NewCatalog(r.seed, r.newID)
	if err != nil {
		return nil, fmt.Errorf("new catalog: %w", err)
	}
	s := NewSession(key, NewEngine(catalog), r.journal, r.log)
	r.cache.SetDefault(key, s)
	r.live[key] = s
	activeSessions.Inc()
	r.log.Info("session started", zap.String("session_id", key), zap.Int("items", catalog.Len()))
	return s, nil
}

// Drop closes and forgets the chat's session.
func (r *Registry) Drop(chatID int64) {
	key := strconv.FormatInt(chatID, 10)

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.live[key]; ok {
		r.retire(key, s, "session dropped")
	}
	r.cache.Delete(key)
}

// Len returns the number of sessions held in memory, including expired ones the
// janitor has not collected yet.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

// Close closes every session and waits for their queued intents to finish.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, s := range r.live {
		delete(r.live, key)
		activeSessions.Dec()
		s.Close()
	}
	r.cache.Flush()
}
