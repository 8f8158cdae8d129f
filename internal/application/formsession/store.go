// Package formsession keeps the portal's open forms in memory, one record per
// form per signed-in user.
package formsession

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"sportsschool/internal/application/formstate"
	"sportsschool/internal/application/navguard"
)

// DefaultTTL is how long an untouched form session survives.
const DefaultTTL = 2 * time.Hour

// DefaultMaxPerAccount caps the open forms of one account; opening one more
// evicts the least recently used.
const DefaultMaxPerAccount = 20

// ErrNotFound is returned for unknown, expired or foreign sessions.
var ErrNotFound = errors.New("form session not found")

// Session is one open form.
type Session struct {
	ID        string
	AccountID string
	Kind      string // e.g. "announcement"
	EntityID  string // empty for create forms
	ReturnTo  string // list URL the form was opened from
	Form      *formstate.Form
	Guard     *navguard.Guard
	// Choices holds the option lists fetched when the form opened, keyed by
	// field (coach_id, student_id) or "marks" for an attendance roster.
	// Set once by the opener before the ID is handed out; read-only after.
	Choices map[string][]Choice
	// ReopenURL is the page that opened the form. Once the session is gone,
	// a request for it is sent there for a fresh copy.
	ReopenURL string

	lastSeen time.Time
}

// closedSession remembers where a closed form can be reopened.
type closedSession struct {
	accountID string
	reopenURL string
	closedAt  time.Time
}

// Choice is one selectable option.
type Choice struct {
	Value string
	Label string
}

// IsNew reports whether the session is a create form.
func (s *Session) IsNew() bool {
	return s.EntityID == ""
}

// Store is an in-memory, TTL-bounded session store. It is safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	closed   map[string]closedSession
	ttl      time.Duration
	max      int
	now      func() time.Time
	newID    func() string
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces uuid.NewString.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithMaxPerAccount replaces DefaultMaxPerAccount. n < 1 is ignored.
func WithMaxPerAccount(n int) Option {
	return func(s *Store) {
		if n >= 1 {
			s.max = n
		}
	}
}

// NewStore creates a store. A zero ttl uses DefaultTTL.
func NewStore(ttl time.Duration, opts ...Option) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{
		sessions: make(map[string]*Session),
		closed:   make(map[string]closedSession),
		ttl:      ttl,
		max:      DefaultMaxPerAccount,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open registers a new form session. Opening the same entity twice yields two
// independent sessions.
// PRE: accountID is non-empty; form is non-nil
// POST: accountID holds at most the configured maximum of sessions
func (s *Store) Open(accountID, kind, entityID, returnTo, reopenURL string, form *formstate.Form) *Session {
	sess := &Session{
		ID:        s.newID(),
		AccountID: accountID,
		Kind:      kind,
		EntityID:  entityID,
		ReturnTo:  returnTo,
		ReopenURL: reopenURL,
		Form:      form,
		Guard:     navguard.New(),
		lastSeen:  s.now(),
	}
	s.mu.Lock()
	s.evictLocked(accountID)
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	slog.Debug("form_session_event", "event", "opened", "session_id", sess.ID, "kind", kind, "entity_id", entityID)
	return sess
}

// Get returns the session if accountID owns it and it has not expired.
// POST: The session's TTL restarts
func (s *Store) Get(id, accountID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok || sess.AccountID != accountID {
		return nil, ErrNotFound
	}
	now := s.now()
	if now.Sub(sess.lastSeen) > s.ttl {
		s.closeLocked(sess)
		return nil, ErrNotFound
	}
	sess.lastSeen = now
	return sess, nil
}

// ReopenURL returns the page that opened a closed, evicted or expired session
// of accountID. Live and unknown sessions report false.
func (s *Store) ReopenURL(id, accountID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.closed[id]
	if !ok || c.accountID != accountID || c.reopenURL == "" || s.now().Sub(c.closedAt) > s.ttl {
		return "", false
	}
	return c.reopenURL, true
}

// evictLocked makes room for one more session of accountID.
// PRE: s.mu is held
func (s *Store) evictLocked(accountID string) {
	for {
		var oldest *Session
		count := 0
		for _, sess := range s.sessions {
			if sess.AccountID != accountID {
				continue
			}
			count++
			if oldest == nil || sess.lastSeen.Before(oldest.lastSeen) {
				oldest = sess
			}
		}
		if count < s.max {
			return
		}
		s.closeLocked(oldest)
		slog.Debug("form_session_event", "event", "evicted", "session_id", oldest.ID, "kind", oldest.Kind)
	}
}

// closeLocked removes sess and remembers where it can be reopened.
// PRE: s.mu is held
func (s *Store) closeLocked(sess *Session) {
	delete(s.sessions, sess.ID)
	s.closed[sess.ID] = closedSession{accountID: sess.AccountID, reopenURL: sess.ReopenURL, closedAt: s.now()}
}

// Close discards a session. Closing an unknown or foreign session is a no-op.
func (s *Store) Close(id, accountID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok && sess.AccountID == accountID {
		s.closeLocked(sess)
	}
}

// CloseAccount discards every session of accountID, closed ones included
// (used on logout).
func (s *Store) CloseAccount(accountID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if sess.AccountID == accountID {
			delete(s.sessions, id)
		}
	}
	for id, c := range s.closed {
		if c.accountID == accountID {
			delete(s.closed, id)
		}
	}
}

// Sweep deletes expired sessions and returns how many it removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for _, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.ttl {
			s.closeLocked(sess)
			removed++
		}
	}
	for id, c := range s.closed {
		if now.Sub(c.closedAt) > s.ttl {
			delete(s.closed, id)
		}
	}
	return removed
}

// Len returns the number of stored sessions, expired ones included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// StartSweeper runs Sweep every interval until ctx is done.
func (s *Store) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.Sweep(); n > 0 {
					slog.Info("form_session_event", "event", "swept", "count", n)
				}
			}
		}
	}()
}
