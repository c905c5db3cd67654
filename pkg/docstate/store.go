package docstate

import (
	"errors"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// ErrUnknownSession is returned by Get when the session does not exist and
// creation is not implied.
var ErrUnknownSession = errors.New("unknown session")

// Store keeps the active session state in memory. Expired sessions are
// purged by the cache's retention policy.
//
// Mutation of a session must go through Update, which serializes the whole
// read-merge-write cycle per session id. Concurrent requests for the same
// session therefore resolve to last-writer-wins at Save granularity without
// losing updates to different fields.
type Store struct {
	cache *cache.Cache

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStore creates a session store with the given retention policy.
func NewStore(ttl, purgeInterval time.Duration) *Store {
	return &Store{
		cache: cache.New(ttl, purgeInterval),
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *Store) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[sessionID] = l
	}
	return l
}

// GetOrCreate returns the session for the id, creating it when absent.
// Creation is idempotent: two calls with the same id yield the same logical
// session. The returned session is a copy.
func (s *Store) GetOrCreate(sessionID, documentType string) *Session {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	if x, found := s.cache.Get(sessionID); found {
		return x.(*Session).Clone()
	}

	now := time.Now()
	session := &Session{
		ID:           sessionID,
		DocumentType: documentType,
		Values:       make(DocumentValue),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.cache.Set(sessionID, session, cache.DefaultExpiration)
	return session.Clone()
}

// Get returns a copy of an existing session, or ErrUnknownSession.
func (s *Store) Get(sessionID string) (*Session, error) {
	if x, found := s.cache.Get(sessionID); found {
		return x.(*Session).Clone(), nil
	}
	return nil, ErrUnknownSession
}

// Save stores the session, stamping UpdatedAt. Last writer wins.
func (s *Store) Save(session *Session) {
	session.UpdatedAt = time.Now()
	s.cache.Set(session.ID, session.Clone(), cache.DefaultExpiration)
}

// Update runs fn against the current session state under the per-session
// lock and saves the result. fn receives a private copy; returning an error
// discards the mutation.
func (s *Store) Update(sessionID, documentType string, fn func(*Session) error) (*Session, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	var session *Session
	if x, found := s.cache.Get(sessionID); found {
		session = x.(*Session).Clone()
	} else {
		now := time.Now()
		session = &Session{
			ID:           sessionID,
			DocumentType: documentType,
			Values:       make(DocumentValue),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	}

	if err := fn(session); err != nil {
		return nil, err
	}

	session.UpdatedAt = time.Now()
	s.cache.Set(sessionID, session.Clone(), cache.DefaultExpiration)
	return session, nil
}

// Delete removes the session and its lock.
func (s *Store) Delete(sessionID string) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	s.cache.Delete(sessionID)
	lock.Unlock()

	s.mu.Lock()
	delete(s.locks, sessionID)
	s.mu.Unlock()
}
