package app

import (
	"log/slog"
	"sync"
	"time"

	"copaweb/internal/domain"
)

const (
	// DefaultSessionTTL is how long an unattached page session is kept
	DefaultSessionTTL = 2 * time.Hour

	cleanupInterval = 10 * time.Minute
)

// PageHub manages the sessions of all rendered pages
type PageHub struct {
	sessions map[string]*PageSession
	mu       sync.RWMutex
	creator  PoolCreator
	opts     FormOptions
	ttl      time.Duration
	logger   *slog.Logger
	done     chan struct{}
	stopOnce sync.Once
}

// NewPageHub creates a new page hub
func NewPageHub(creator PoolCreator, opts FormOptions, ttl time.Duration, logger *slog.Logger) *PageHub {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	hub := &PageHub{
		sessions: make(map[string]*PageSession),
		creator:  creator,
		opts:     opts,
		ttl:      ttl,
		logger:   logger,
		done:     make(chan struct{}),
	}

	// Start cleanup goroutine
	go hub.cleanupLoop()

	return hub
}

// CreateSession creates the session for a page about to be rendered
func (h *PageHub) CreateSession(lang string, messages Messages) *PageSession {
	session := NewPageSession(lang, messages, h.creator, h.opts, h.logger)

	h.mu.Lock()
	h.sessions[session.GetID()] = session
	h.mu.Unlock()

	h.logger.Debug("page session created", "sessionID", session.GetID(), "lang", lang)

	return session
}

// GetSession returns a page session by ID
func (h *PageHub) GetSession(id string) (*PageSession, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	session, ok := h.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	return session, nil
}

// DeleteSession removes a page session
func (h *PageHub) DeleteSession(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if session, ok := h.sessions[id]; ok {
		session.Close()
		delete(h.sessions, id)
		h.logger.Debug("page session deleted", "sessionID", id)
	}
}

// GetSessionCount returns the number of live sessions
func (h *PageHub) GetSessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// GetConnectedCount returns the number of sessions with a browser attached
func (h *PageHub) GetConnectedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, session := range h.sessions {
		if session.HasClient() {
			total++
		}
	}
	return total
}

// Close shuts down the hub and all sessions
func (h *PageHub) Close() {
	h.stopOnce.Do(func() { close(h.done) })

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, session := range h.sessions {
		session.Close()
	}
	h.sessions = make(map[string]*PageSession)
}

// cleanupLoop periodically cleans up stale sessions
func (h *PageHub) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			h.cleanupStale(time.Now())
		}
	}
}

// cleanupStale removes sessions without a browser that have been idle for
// longer than the TTL
func (h *PageHub) cleanupStale(now time.Time) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	stale := make([]string, 0)
	for id, session := range h.sessions {
		if !session.HasClient() && now.Sub(session.GetLastActive()) > h.ttl {
			stale = append(stale, id)
		}
	}

	for _, id := range stale {
		if session, ok := h.sessions[id]; ok {
			session.Close()
			delete(h.sessions, id)
			h.logger.Debug("stale page session cleaned up", "sessionID", id)
		}
	}
	return len(stale)
}
