// Package session holds the single-admin authenticated session state:
// a token-keyed in-memory store with a fixed idle expiry, plus the
// credential verification used by login.
package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Session is the server-side state for one authenticated browser.
// Username and LoginTime are set for the session's whole lifetime; an
// expired or destroyed session is simply absent from the store.
type Session struct {
	Token     string
	Username  string
	LoginTime time.Time
	ExpiresAt time.Time
}

// Store is a mutex-guarded token→Session map. Sessions expire after a
// fixed TTL with no sliding renewal.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	secret   []byte
	now      func() time.Time
	log      *logrus.Entry
}

func NewStore(logger *logrus.Logger, secret string, ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		secret:   []byte(secret),
		now:      time.Now,
		log:      logger.WithField("component", "session_store"),
	}
}

// Create registers a new session for username and returns it.
func (s *Store) Create(username string) *Session {
	now := s.now()
	sess := &Session{
		Token:     uuid.NewString(),
		Username:  username,
		LoginTime: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[sess.Token] = sess
	s.mu.Unlock()

	s.log.WithField("username", username).Info("Session created")
	return sess
}

// Get looks up a session by token. Expired sessions are dropped on
// access and reported as absent.
func (s *Store) Get(token string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return nil, false
	}
	if s.now().After(sess.ExpiresAt) {
		delete(s.sessions, token)
		return nil, false
	}
	return sess, true
}

// Destroy removes a session unconditionally. Destroying an absent
// token is not an error, so logout stays idempotent.
func (s *Store) Destroy(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// PurgeExpired drops every expired session and returns how many were
// removed.
func (s *Store) PurgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	purged := 0
	for token, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, token)
			purged++
		}
	}
	return purged
}

// SignToken returns the cookie value for a token: the token plus an
// HMAC-SHA256 tag under the session secret, so a forged cookie cannot
// probe the store with arbitrary tokens.
func (s *Store) SignToken(token string) string {
	return token + "." + s.sign(token)
}

// VerifyCookie splits and checks a signed cookie value, returning the
// embedded token.
func (s *Store) VerifyCookie(value string) (string, bool) {
	token, tag, found := strings.Cut(value, ".")
	if !found || token == "" {
		return "", false
	}
	if !hmac.Equal([]byte(tag), []byte(s.sign(token))) {
		return "", false
	}
	return token, true
}

func (s *Store) sign(token string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}
