package server

import (
	"sync"
	"time"

	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/notify"
)

const sessionIdle = time.Hour

// session is the contact form state of one visitor.
type session struct {
	id        string
	form      *contact.Form
	lifecycle *contact.Lifecycle
	notices   *notify.Center
	lastSeen  time.Time
}

// busy reports whether the session still has something in flight.
func (s *session) busy() bool {
	return s.lifecycle.State() == contact.Submitting || s.notices.Len() > 0
}

// sessions is the registry of live visitor sessions. Sessions idle for
// longer than idle are dropped on a later lookup.
type sessions struct {
	mu        sync.Mutex
	items     map[string]*session
	build     func(id string) *session
	idle      time.Duration
	lastPrune time.Time
	now       func() time.Time
}

func newSessions(build func(id string) *session) *sessions {
	return &sessions{
		items: make(map[string]*session),
		build: build,
		idle:  sessionIdle,
		now:   time.Now,
	}
}

// get returns the session for id, creating it on first use.
func (s *sessions) get(id string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastPrune) > s.idle {
		s.pruneLocked(now)
		s.lastPrune = now
	}

	sess, ok := s.items[id]
	if !ok {
		sess = s.build(id)
		s.items[id] = sess
	}
	sess.lastSeen = now
	return sess
}

// lookup returns the session for id without creating one, so read-only
// pages do not allocate state for visitors that never use the form.
func (s *sessions) lookup(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.items[id]
	if ok {
		sess.lastSeen = s.now()
	}
	return sess, ok
}

func (s *sessions) pruneLocked(now time.Time) int {
	n := 0
	for id, sess := range s.items {
		if now.Sub(sess.lastSeen) > s.idle && !sess.busy() {
			delete(s.items, id)
			n++
		}
	}
	return n
}

func (s *sessions) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
