package server

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/ironsheep/image-filter-mcp/internal/filter"
)

// ErrUnknownSession is returned for ids that were never opened or have been
// released.
var ErrUnknownSession = errors.New("unknown session")

// session is one open pipeline. Tool calls on the same session are
// serialized by mu because a Pipeline is not safe for concurrent use.
type session struct {
	id   string
	path string
	mu   sync.Mutex
	p    *filter.Pipeline
}

// sessionStore holds open pipelines keyed by a random id.
//
// sessionStore is safe for concurrent use. Pipelines stay open, and their
// pixels stay in memory, until released or until the store is closed.
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*session
	max      int
}

func newSessionStore(max int) *sessionStore {
	return &sessionStore{
		sessions: make(map[string]*session),
		max:      max,
	}
}

// add registers p and returns its session id. It fails when the store is
// full; the caller still owns p in that case.
func (s *sessionStore) add(path string, p *filter.Pipeline) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.max > 0 && len(s.sessions) >= s.max {
		return "", errors.Errorf("too many open sessions (max %d), release one first", s.max)
	}
	id := uuid.NewString()
	s.sessions[id] = &session{id: id, path: path, p: p}
	return id, nil
}

// get returns the session for id.
func (s *sessionStore) get(id string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownSession, "session %q", id)
	}
	return sess, nil
}

// remove drops id from the store and releases its pipeline.
func (s *sessionStore) remove(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return errors.Wrapf(ErrUnknownSession, "session %q", id)
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.p.Release()
}

// len reports the number of open sessions.
func (s *sessionStore) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// closeAll releases every open pipeline.
func (s *sessionStore) closeAll() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*session)
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.mu.Lock()
		_ = sess.p.Release()
		sess.mu.Unlock()
	}
}
