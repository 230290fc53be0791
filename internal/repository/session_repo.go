package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/interview-trainer-api/internal/interview"
)

// ErrSessionNotFound indicates no stored state exists for the session id.
var ErrSessionNotFound = errors.New("session not found")

// WebSession is the server-side state bound to one browser session cookie.
type WebSession struct {
	ID        string             `json:"-"`
	UserID    uint               `json:"user_id,omitempty"`
	Username  string             `json:"username,omitempty"`
	Interview *interview.Session `json:"interview,omitempty"`
	Notices   []string           `json:"notices,omitempty"`

	dirty      bool
	cleared    bool
	replacedID string
}

// NewWebSession returns an empty, unsaved session.
func NewWebSession(id string) *WebSession {
	return &WebSession{ID: id}
}

// Authenticated reports whether a user is logged in.
func (s *WebSession) Authenticated() bool {
	return s != nil && s.UserID != 0
}

// SetUser binds the logged in user. Interview progress from an earlier login is dropped.
func (s *WebSession) SetUser(id uint, username string) {
	s.UserID = id
	s.Username = username
	s.Interview = nil
	s.cleared = false
	s.dirty = true
}

// Renew moves the session to a new id. The state stored under the old id must be removed.
func (s *WebSession) Renew(id string) {
	if s.replacedID == "" {
		s.replacedID = s.ID
	}
	s.ID = id
	s.dirty = true
}

// ReplacedID returns the id the session was stored under before Renew, if any.
func (s *WebSession) ReplacedID() string {
	if s.replacedID == s.ID {
		return ""
	}
	return s.replacedID
}

// ActiveInterview returns the in-progress interview, if any.
func (s *WebSession) ActiveInterview() (interview.Session, bool) {
	if s == nil || s.Interview == nil || !s.Interview.InProgress() {
		return interview.Session{}, false
	}
	return *s.Interview, true
}

// SetInterview stores the interview progress.
func (s *WebSession) SetInterview(session interview.Session) {
	s.Interview = &session
	s.dirty = true
}

// ClearInterview drops interview progress but keeps the login.
func (s *WebSession) ClearInterview() {
	if s.Interview != nil {
		s.Interview = nil
		s.dirty = true
	}
}

// AddNotice queues a one-shot message for the next rendered page.
func (s *WebSession) AddNotice(message string) {
	s.Notices = append(s.Notices, message)
	s.dirty = true
}

// PopNotices returns and clears queued messages.
func (s *WebSession) PopNotices() []string {
	notices := s.Notices
	if len(notices) > 0 {
		s.Notices = nil
		s.dirty = true
	}
	return notices
}

// Clear wipes every key, as on logout.
func (s *WebSession) Clear() {
	s.UserID = 0
	s.Username = ""
	s.Interview = nil
	s.Notices = nil
	s.cleared = true
	s.dirty = false
}

// Dirty reports whether the session must be written back.
func (s *WebSession) Dirty() bool {
	return s.dirty
}

// Cleared reports whether the stored session must be removed.
func (s *WebSession) Cleared() bool {
	return s.cleared
}

// SessionRepository stores web sessions keyed by browser session id.
type SessionRepository interface {
	Get(ctx context.Context, id string) (*WebSession, error)
	Save(ctx context.Context, session *WebSession) error
	Delete(ctx context.Context, id string) error
}

// NewSessionRepository constructs a redis-backed session store. Each save refreshes the ttl.
func NewSessionRepository(client *redis.Client, prefix string, ttl time.Duration) SessionRepository {
	if prefix == "" {
		prefix = "session"
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &sessionRepository{client: client, prefix: prefix, ttl: ttl}
}

type sessionRepository struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func (r *sessionRepository) key(id string) string {
	return fmt.Sprintf("%s:%s", r.prefix, id)
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*WebSession, error) {
	payload, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	session := &WebSession{}
	if err := json.Unmarshal(payload, session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	session.ID = id
	return session, nil
}

func (r *sessionRepository) Save(ctx context.Context, session *WebSession) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("session id is required")
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.client.Set(ctx, r.key(session.ID), payload, r.ttl).Err(); err != nil {
		return err
	}
	session.dirty = false
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, r.key(id)).Err()
}
