package nutrition

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps the open editor sessions in memory. A session lives
// until it is explicitly closed, or until it idles long enough to get
// swept by ScanAndClean.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry

	clock            Clock
	debounce         time.Duration
	onRecompute      func()
	onDebounceCancel func()
}

type sessionEntry struct {
	session   *Session
	lastTouch time.Time
}

type NewSessionStoreParams struct {
	Clock            Clock
	Debounce         time.Duration
	OnRecompute      func()
	OnDebounceCancel func()
}

func NewSessionStore(params NewSessionStoreParams) *SessionStore {
	if params.Clock == nil {
		params.Clock = NewRealClock()
	}
	return &SessionStore{
		sessions:         make(map[string]*sessionEntry),
		clock:            params.Clock,
		debounce:         params.Debounce,
		onRecompute:      params.OnRecompute,
		onDebounceCancel: params.OnDebounceCancel,
	}
}

func (store *SessionStore) Open() *Session {
	session := NewSession(NewSessionParams{
		Clock:            store.clock,
		Debounce:         store.debounce,
		OnRecompute:      store.onRecompute,
		OnDebounceCancel: store.onDebounceCancel,
	})

	store.mu.Lock()
	store.sessions[session.ID] = &sessionEntry{
		session:   session,
		lastTouch: time.Now(),
	}
	store.mu.Unlock()

	return session
}

func (store *SessionStore) Get(id string) (*Session, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	entry, ok := store.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	entry.lastTouch = time.Now()
	return entry.session, nil
}

func (store *SessionStore) Close(id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	entry, ok := store.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	entry.session.Close()
	delete(store.sessions, id)
	return nil
}

func (store *SessionStore) Len() int {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return len(store.sessions)
}

// ScanAndClean closes sessions idle for longer than maxIdle. Meant to be
// called periodically from a server tick loop.
func (store *SessionStore) ScanAndClean(_ context.Context, maxIdle time.Duration) {
	cutoff := time.Now().Add(-maxIdle)

	store.mu.Lock()
	defer store.mu.Unlock()
	for id, entry := range store.sessions {
		if entry.lastTouch.Before(cutoff) {
			entry.session.Close()
			delete(store.sessions, id)
			log.Debugf("session store: swept idle session [%s]", id)
		}
	}
}
