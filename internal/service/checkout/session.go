package checkout

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/albaehandicraft/umkmpos/internal/service/identity"
)

// ErrSessionNotFound is returned for unknown sessions, for sessions owned by
// another user and for sessions evicted after sitting idle.
var ErrSessionNotFound = errors.New("checkout session not found")

// DefaultIdleTTL is how long an untouched checkout session is kept.
const DefaultIdleTTL = 2 * time.Hour

type checkoutSession struct {
	owner    string
	workflow *Workflow
	lastUsed time.Time
}

// SessionManager keeps one workflow per open checkout session. Sessions not
// touched for the idle TTL are dropped on the next Open or Sweep.
type SessionManager struct {
	sessions map[string]*checkoutSession
	mu       sync.Mutex
	gateway  Gateway
	logger   *zap.Logger
	opts     []Option
	now      func() time.Time
	idleTTL  time.Duration
}

// NewSessionManager creates a new session manager. WithClock in opts also
// drives idle eviction.
func NewSessionManager(gateway Gateway, logger *zap.Logger, opts ...Option) *SessionManager {
	if logger == nil {
		logger = zap.NewNop()
	}

	clock := &Workflow{now: time.Now}
	for _, opt := range opts {
		opt(clock)
	}

	return &SessionManager{
		sessions: make(map[string]*checkoutSession),
		gateway:  gateway,
		logger:   logger,
		opts:     opts,
		now:      clock.now,
		idleTTL:  DefaultIdleTTL,
	}
}

// WithIdleTTL changes how long idle sessions survive. Non-positive values
// keep the default.
func (sm *SessionManager) WithIdleTTL(ttl time.Duration) *SessionManager {
	if ttl > 0 {
		sm.idleTTL = ttl
	}
	return sm
}

// Open starts a checkout session for the signed-in user.
func (sm *SessionManager) Open(session identity.Session) (string, *Workflow) {
	id := uuid.NewString()
	wf := NewWorkflow(session, sm.gateway, sm.logger.With(zap.String("checkout_id", id)), sm.opts...)

	sm.mu.Lock()
	defer sm.mu.Unlock()
	now := sm.now()
	sm.sweepLocked(now)
	sm.sessions[id] = &checkoutSession{owner: session.UserID(), workflow: wf, lastUsed: now}
	return id, wf
}

// Get retrieves the workflow of a session owned by the caller and marks the
// session as used.
func (sm *SessionManager) Get(session identity.Session, id string) (*Workflow, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	cs, ok := sm.sessions[id]
	if !ok || cs.owner != session.UserID() {
		return nil, ErrSessionNotFound
	}

	now := sm.now()
	if sm.expired(cs, now) {
		delete(sm.sessions, id)
		return nil, ErrSessionNotFound
	}
	cs.lastUsed = now
	return cs.workflow, nil
}

// Close removes a session owned by the caller.
func (sm *SessionManager) Close(session identity.Session, id string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	cs, ok := sm.sessions[id]
	if !ok || cs.owner != session.UserID() {
		return ErrSessionNotFound
	}
	delete(sm.sessions, id)
	return nil
}

// Sweep drops every session idle for longer than the TTL and returns how
// many were removed.
func (sm *SessionManager) Sweep() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.sweepLocked(sm.now())
}

func (sm *SessionManager) sweepLocked(now time.Time) int {
	evicted := 0
	for id, cs := range sm.sessions {
		if sm.expired(cs, now) {
			delete(sm.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		sm.logger.Info("idle checkout sessions evicted", zap.Int("count", evicted), zap.Int("open", len(sm.sessions)))
	}
	return evicted
}

func (sm *SessionManager) expired(cs *checkoutSession, now time.Time) bool {
	return now.Sub(cs.lastUsed) > sm.idleTTL
}

// Len returns the number of open sessions.
func (sm *SessionManager) Len() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return len(sm.sessions)
}
