// ABOUTME: Email/password session authentication with a disk-cached cookie
// ABOUTME: Logs in against /auth/login and verifies sessions via /auth/verify
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrAuthenticationFailed is returned when no login attempt produced a
// verified session.
var ErrAuthenticationFailed = errors.New("auth: authentication failed")

const loginAttempts = 3

// SessionConfig configures SessionAuth.
type SessionConfig struct {
	// APIURL is the platform base URL, e.g. https://api.cerebrahealth.com/api.
	APIURL string

	// Email and Password for the platform account.
	Email    string
	Password string

	// CacheDir overrides where the session cookie is cached.
	// Default: ~/.cerebra
	CacheDir string

	// HTTPClient overrides the default client (30s timeout).
	HTTPClient *http.Client

	// Logger receives login diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
}

// SessionAuth authenticates with email and password and holds the
// resulting session cookie. Verified sessions are cached on disk so
// later processes can reuse them without logging in again.
type SessionAuth struct {
	cfg  SessionConfig
	http *http.Client
	log  *zap.Logger

	mu     sync.Mutex
	cookie string // session cookie value, empty when logged out
}

// NewSessionAuth creates a session provider with the given configuration.
func NewSessionAuth(cfg SessionConfig) *SessionAuth {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &SessionAuth{
		cfg:  cfg,
		http: cfg.HTTPClient,
		log:  cfg.Logger,
	}
}

// Apply attaches the session cookie when one is held. A missing cookie
// is not an error: the platform will answer NOT_AUTHENTICATED and the
// query layer reacts by calling Login.
func (s *SessionAuth) Apply(req *http.Request) error {
	s.mu.Lock()
	if s.cookie == "" {
		s.cookie = s.readCachedCookie()
	}
	cookie := s.cookie
	s.mu.Unlock()

	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: cookie})
	}
	return nil
}

// Login verifies any cached session and otherwise performs a fresh
// email/password login, retrying a few times before giving up.
func (s *SessionAuth) Login(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cookie == "" {
		s.cookie = s.readCachedCookie()
	}
	if s.cookie != "" {
		if err := s.verify(ctx); err == nil {
			return nil
		}
		s.cookie = ""
	}

	var lastErr error
	for attempt := 1; attempt <= loginAttempts; attempt++ {
		if err := s.login(ctx); err != nil {
			lastErr = err
			s.log.Warn("login attempt failed", zap.Int("attempt", attempt), zap.Error(err))
			continue
		}
		if err := s.verify(ctx); err != nil {
			lastErr = err
			s.cookie = ""
			s.log.Warn("session verify failed", zap.Int("attempt", attempt), zap.Error(err))
			continue
		}
		s.writeCachedCookie()
		return nil
	}
	return fmt.Errorf("%w after %d attempts: %v", ErrAuthenticationFailed, loginAttempts, lastErr)
}

// Invalidate drops the in-memory cookie and the disk cache.
func (s *SessionAuth) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cookie = ""
	if path, err := s.cookiePath(); err == nil {
		os.Remove(path)
	}
}

// login posts the credentials as a form and stores the session cookie
// from the response. Callers hold s.mu.
func (s *SessionAuth) login(ctx context.Context) error {
	form := url.Values{}
	form.Set("email", s.cfg.Email)
	form.Set("password", s.cfg.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.cfg.APIURL+"/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login returned status %d", resp.StatusCode)
	}
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookie && c.Value != "" {
			s.cookie = c.Value
			return nil
		}
	}
	return errors.New("login response carried no session cookie")
}

// verify checks the held cookie against the verify endpoint. Callers
// hold s.mu.
func (s *SessionAuth) verify(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.APIURL+"/auth/verify", nil)
	if err != nil {
		return err
	}
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: s.cookie})

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("verify returned status %d", resp.StatusCode)
	}
	var body struct {
		Session string `json:"session"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode verify response: %w", err)
	}
	if body.Session != "active" {
		return fmt.Errorf("session is %q, not active", body.Session)
	}
	return nil
}

func (s *SessionAuth) cookiePath() (string, error) {
	dir := s.cfg.CacheDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".cerebra")
	}
	return filepath.Join(dir, "cookie"), nil
}

// readCachedCookie loads a previously verified session cookie from
// disk. Any failure just means logging in again.
func (s *SessionAuth) readCachedCookie() string {
	path, err := s.cookiePath()
	if err != nil {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var cookies map[string]string
	if err := json.Unmarshal(data, &cookies); err != nil {
		return ""
	}
	return cookies[SessionCookie]
}

// writeCachedCookie saves the current cookie best-effort. Callers hold s.mu.
func (s *SessionAuth) writeCachedCookie() {
	path, err := s.cookiePath()
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return
	}
	data, err := json.Marshal(map[string]string{SessionCookie: s.cookie})
	if err != nil {
		return
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		s.log.Debug("could not cache session cookie", zap.Error(err))
	}
}
