package main

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sguter90/awspanel/pkg/session"
)

// SessionFactory creates the state of a newly connected browser
type SessionFactory func() *session.Session

// SessionRegistry keeps one panel session per browser and closes idle ones
type SessionRegistry struct {
	factory     SessionFactory
	idleTimeout time.Duration
	logger      *slog.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*session.Session

	stopChan chan struct{}
	stopOnce sync.Once
}

// NewSessionRegistry creates an empty registry
func NewSessionRegistry(factory SessionFactory, idleTimeout time.Duration, logger *slog.Logger) *SessionRegistry {
	return &SessionRegistry{
		factory:     factory,
		idleTimeout: idleTimeout,
		logger:      logger,
		sessions:    make(map[uuid.UUID]*session.Session),
		stopChan:    make(chan struct{}),
	}
}

// Create starts a new session
func (sr *SessionRegistry) Create() (uuid.UUID, *session.Session) {
	id := uuid.New()
	s := sr.factory()

	sr.mu.Lock()
	sr.sessions[id] = s
	sr.mu.Unlock()

	sr.logger.Debug("session created", "session", id)
	return id, s
}

// Get looks up a session by its cookie value
func (sr *SessionRegistry) Get(raw string) (*session.Session, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, false
	}

	sr.mu.Lock()
	defer sr.mu.Unlock()
	s, ok := sr.sessions[id]
	return s, ok
}

// Len returns the number of open sessions
func (sr *SessionRegistry) Len() int {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	return len(sr.sessions)
}

// Reap closes sessions without activity since now minus the idle timeout
func (sr *SessionRegistry) Reap(now time.Time) int {
	var idle []*session.Session

	sr.mu.Lock()
	for id, s := range sr.sessions {
		if now.Sub(s.LastSeen()) > sr.idleTimeout {
			idle = append(idle, s)
			delete(sr.sessions, id)
			sr.logger.Debug("session expired", "session", id)
		}
	}
	sr.mu.Unlock()

	// closing waits for in-flight polls, keep it outside the lock
	for _, s := range idle {
		s.Close()
	}
	return len(idle)
}

// Start runs the idle reaper every checkInterval
func (sr *SessionRegistry) Start(checkInterval time.Duration) {
	ticker := time.NewTicker(checkInterval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-sr.stopChan:
				return
			case now := <-ticker.C:
				if n := sr.Reap(now); n > 0 {
					sr.logger.Info("closed idle sessions", "count", n, "open", sr.Len())
				}
			}
		}
	}()
}

// Stop ends the reaper, if started, and closes every session
func (sr *SessionRegistry) Stop() {
	sr.stopOnce.Do(func() { close(sr.stopChan) })

	sr.mu.Lock()
	sessions := sr.sessions
	sr.sessions = make(map[uuid.UUID]*session.Session)
	sr.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
