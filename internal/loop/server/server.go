// Package server keeps track of the clients connected to a front end so they
// can be told about, and wait out, a graceful shutdown. Every client plays its
// own private session; nothing about the game is shared here.
package server

import (
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/arcade-asteroids/internal/logging"
)

// ErrShuttingDown is returned by RegisterClient once Shutdown has started.
var ErrShuttingDown = errors.New("server: shutting down")

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventServerShutdown ClientEventType = iota + 1
)

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type ClientEventType
	// Deadline is when the server stops waiting for the client to leave.
	Deadline time.Time
}

// ClientHandle represents a client's registration with the server.
type ClientHandle struct {
	ID        int
	Username  string // Display name for this client
	Frontend  string // "terminal", "ssh" or "web"
	Connected time.Time
	EventsCh  chan ClientEvent // Events sent to client (shutdown)
}

// Server is the registry of live clients.
type Server struct {
	mu           sync.RWMutex
	clients      map[int]*ClientHandle
	nextClientID int
	shuttingDown bool
	log          *log.Logger
}

// NewServer creates an empty registry. A nil logger discards output.
func NewServer(logger *log.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Server{
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		log:          logger,
	}
}

// RegisterClient registers a new client and returns its handle.
func (s *Server) RegisterClient(username, frontend string) (*ClientHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shuttingDown {
		return nil, ErrShuttingDown
	}
	handle := &ClientHandle{
		ID:        s.nextClientID,
		Username:  username,
		Frontend:  frontend,
		Connected: time.Now(),
		EventsCh:  make(chan ClientEvent, 16),
	}
	s.nextClientID++
	s.clients[handle.ID] = handle

	s.log.Info("client connected", "id", handle.ID, "user", username, "frontend", frontend, "clients", len(s.clients))
	return handle, nil
}

// UnregisterClient removes a client. Unknown IDs are ignored.
func (s *Server) UnregisterClient(clientID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle, ok := s.clients[clientID]
	if !ok {
		return
	}
	delete(s.clients, clientID)
	s.log.Info("client disconnected",
		"id", clientID,
		"user", handle.Username,
		"duration", time.Since(handle.Connected).Round(time.Second),
		"clients", len(s.clients),
	)
}

// Count returns the number of connected clients.
func (s *Server) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Shutdown gracefully shuts down the server by notifying all connected clients
// and waiting for them to disconnect (up to the given timeout). New clients
// are refused from now on. It returns the number of clients still connected.
func (s *Server) Shutdown(timeout time.Duration) int {
	deadline := time.Now().Add(timeout)

	// Notify all connected clients about the shutdown
	s.mu.Lock()
	s.shuttingDown = true
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown, Deadline: deadline}:
		default:
		}
	}
	s.mu.Unlock()
	s.log.Info("shutdown started", "clients", s.Count(), "timeout", timeout)

	// Wait for all clients to disconnect, or timeout
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if remaining := s.Count(); remaining == 0 {
			return 0
		}
		select {
		case <-timer.C:
			remaining := s.Count()
			if remaining > 0 {
				s.log.Warn("shutdown timed out", "clients", remaining)
			}
			return remaining
		case <-ticker.C:
		}
	}
}
