// Package session holds per-browser chat context in memory.
// Sessions are identified by an opaque ID the client sends in the
// X-Session-Id header and expire after a period of inactivity.
package session

import (
	"sync"
	"time"
)

// historyWindow caps how many exchanges a session retains.
const historyWindow = 10

// Exchange is one user message and the assistant's reply.
type Exchange struct {
	UserMessage string    `json:"user_message"`
	AIResponse  string    `json:"ai_response"`
	Timestamp   time.Time `json:"timestamp"`
}

// FolderInfo is the folder snapshot attached to a session.
type FolderInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// LinkInfo is a content source snapshot attached to a session.
type LinkInfo struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Type    string `json:"type"`
	Preview string `json:"preview"`
}

// TestInfo is a test snapshot attached to a session.
type TestInfo struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Kind         string   `json:"kind"`
	NumQuestions int      `json:"num_questions"`
	Tags         []string `json:"tags"`
}

// SubmissionInfo is a submission snapshot attached to a session.
type SubmissionInfo struct {
	ID           string             `json:"id"`
	TestName     string             `json:"test_name"`
	AverageScore float64            `json:"average_score"`
	TopSkills    map[string]float64 `json:"top_skills"`
	SubmittedAt  time.Time          `json:"submitted_at"`
}

// ContextData is the denormalized study context the chat assistant sees.
type ContextData struct {
	Folder      *FolderInfo      `json:"folder,omitempty"`
	Links       []LinkInfo       `json:"links,omitempty"`
	Tests       []TestInfo       `json:"tests,omitempty"`
	Submissions []SubmissionInfo `json:"submissions,omitempty"`
}

// Context is one chat session's state.
type Context struct {
	SessionID     string
	FolderID      string
	LinkIDs       []string
	TestIDs       []string
	SubmissionIDs []string
	History       []Exchange
	Data          ContextData
	LastActive    time.Time
}

// AddExchange appends to the history, keeping only the most recent window.
func (c *Context) AddExchange(userMessage, aiResponse string) {
	c.History = append(c.History, Exchange{
		UserMessage: userMessage,
		AIResponse:  aiResponse,
		Timestamp:   time.Now().UTC(),
	})
	if len(c.History) > historyWindow {
		c.History = c.History[len(c.History)-historyWindow:]
	}
}

// RecentHistory returns up to n of the latest exchanges, oldest first.
func (c *Context) RecentHistory(n int) []Exchange {
	if len(c.History) <= n {
		return c.History
	}
	return c.History[len(c.History)-n:]
}

// Store keeps sessions in memory and evicts the ones idle longer than ttl.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Context
	ttl      time.Duration
	done     chan struct{}
}

// NewStore creates a store whose janitor wakes at the given interval.
func NewStore(ttl, sweepInterval time.Duration) *Store {
	s := &Store{
		sessions: make(map[string]*Context),
		ttl:      ttl,
		done:     make(chan struct{}),
	}
	go s.janitor(sweepInterval)
	return s
}

func (s *Store) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.evictExpired()
		case <-s.done:
			return
		}
	}
}

func (s *Store) evictExpired() {
	cutoff := time.Now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if sess.LastActive.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}

// Get returns the session, refreshing its activity timestamp.
// Expired sessions are treated as absent even before the janitor runs.
func (s *Store) Get(sessionID string) (*Context, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, false
	}
	if sess.LastActive.Before(time.Now().Add(-s.ttl)) {
		delete(s.sessions, sessionID)
		return nil, false
	}
	sess.LastActive = time.Now()
	return sess, true
}

// Put stores or replaces a session.
func (s *Store) Put(sess *Context) {
	sess.LastActive = time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.SessionID] = sess
}

// Delete removes one session.
func (s *Store) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Clear drops all sessions and returns how many were dropped.
func (s *Store) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.sessions)
	s.sessions = make(map[string]*Context)
	return n
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops the janitor.
func (s *Store) Close() {
	close(s.done)
}
