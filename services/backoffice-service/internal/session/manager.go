package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/md-rashed-zaman/backoffice/libs/httpx"
	"github.com/md-rashed-zaman/backoffice/libs/token"
)

const DefaultCookieName = "bo_session"

type Config struct {
	Secret     string
	TTL        time.Duration
	CookieName string
	Secure     bool
}

// Manager binds the signed session cookie to a stored workspace and
// serializes requests of one session.
type Manager struct {
	store  Store
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
	locks  *keyedMutex
}

func NewManager(store Store, cfg Config, logger *slog.Logger) (*Manager, error) {
	if cfg.Secret == "" {
		return nil, errors.New("session secret is required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 8 * time.Hour
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{store: store, cfg: cfg, logger: logger, now: time.Now, locks: newKeyedMutex()}, nil
}

// Session is one locked request-scoped view of a workspace. Close must be
// called exactly once.
type Session struct {
	ID        string
	Workspace *Workspace

	m      *Manager
	unlock func()
}

// CookieID returns the session id carried by the request cookie, if valid.
func (m *Manager) CookieID(r *http.Request) (string, bool) {
	c, err := r.Cookie(m.cfg.CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	claims, err := token.ParseAndVerifyHS256(c.Value, m.cfg.Secret, m.now())
	if err != nil {
		return "", false
	}
	return claims.Sub, true
}

// RateKey buckets requests by verified session id. Requests without a valid
// cookie share the bucket of their client IP.
func (m *Manager) RateKey(r *http.Request) string {
	if id, ok := m.CookieID(r); ok {
		return "s:" + id
	}
	return "ip:" + httpx.ClientIP(r)
}

// Begin locks and loads the request's workspace, starting a new session
// when the cookie is missing, invalid or points at an expired workspace. The
// cookie is refreshed on every call.
func (m *Manager) Begin(w http.ResponseWriter, r *http.Request) (*Session, error) {
	ctx := r.Context()
	id, ok := m.CookieID(r)
	if !ok {
		id = uuid.NewString()
		m.logger.DebugContext(ctx, "starting new operator session")
	}
	if err := m.writeCookie(w, id); err != nil {
		return nil, err
	}

	unlock := m.locks.Lock(id)
	ws, err := m.store.Load(ctx, id)
	switch {
	case errors.Is(err, ErrNotFound):
		ws = NewWorkspace()
	case err != nil:
		unlock()
		return nil, err
	}
	return &Session{ID: id, Workspace: ws, m: m, unlock: unlock}, nil
}

func (m *Manager) writeCookie(w http.ResponseWriter, id string) error {
	now := m.now()
	raw, err := token.SignHS256(token.Claims{Sub: id, Iat: now.Unix(), Exp: now.Add(m.cfg.TTL).Unix()}, m.cfg.Secret)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    raw,
		Path:     "/",
		MaxAge:   int(m.cfg.TTL / time.Second),
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Save persists the workspace.
func (s *Session) Save(ctx context.Context) error {
	s.Workspace.UpdatedAt = s.m.now().UTC()
	return s.m.store.Save(ctx, s.ID, s.Workspace)
}

// Close releases the session lock.
func (s *Session) Close() {
	if s.unlock != nil {
		s.unlock()
		s.unlock = nil
	}
}

type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: map[string]*refMutex{}}
}

func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &refMutex{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
