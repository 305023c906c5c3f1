// Package sse provides Server-Sent Events support for live board updates.
package sse

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"flowboard_backend/platform/logger"
)

// EventType identifies the kind of SSE event pushed to clients.
type EventType string

const (
	// EventBoardChanged tells clients to refetch the board.
	EventBoardChanged EventType = "board_changed"
	// EventBoardBootstrapped signals that the default stage set was seeded.
	EventBoardBootstrapped EventType = "board_bootstrapped"
	// EventProjectCompleted signals that a project reached a terminal column.
	EventProjectCompleted EventType = "project_completed"
)

// Event is an SSE event payload.
type Event struct {
	Type     EventType   `json:"type"`
	TenantID uuid.UUID   `json:"tenantId,omitempty"`
	Reason   string      `json:"reason,omitempty"`
	Data     interface{} `json:"data,omitempty"`
}

// client is one open SSE connection.
type client struct {
	userID uuid.UUID
	orgID  uuid.UUID
	events chan Event
}

// Service manages SSE connections and event broadcasting.
type Service struct {
	mu      sync.RWMutex
	clients map[uuid.UUID][]*client // userID -> connections
	orgMap  map[uuid.UUID][]uuid.UUID
	log     *logger.Logger
}

// New creates a new SSE service.
func New(log *logger.Logger) *Service {
	return &Service{
		clients: make(map[uuid.UUID][]*client),
		orgMap:  make(map[uuid.UUID][]uuid.UUID),
		log:     log,
	}
}

func (s *Service) addClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clients[c.userID] = append(s.clients[c.userID], c)
	if c.orgID != uuid.Nil {
		s.orgMap[c.orgID] = append(s.orgMap[c.orgID], c.userID)
	}
}

func (s *Service) removeClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conns := s.clients[c.userID]
	for i, conn := range conns {
		if conn == c {
			s.clients[c.userID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(s.clients[c.userID]) == 0 {
		delete(s.clients, c.userID)
	}

	if c.orgID != uuid.Nil {
		members := s.orgMap[c.orgID]
		for i, userID := range members {
			if userID == c.userID {
				s.orgMap[c.orgID] = append(members[:i], members[i+1:]...)
				break
			}
		}
		if len(s.orgMap[c.orgID]) == 0 {
			delete(s.orgMap, c.orgID)
		}
	}

	close(c.events)
}

// Publish sends an event to all connections of a specific user. Slow
// clients are skipped rather than blocking the publisher.
func (s *Service) Publish(userID uuid.UUID, event Event) {
	s.mu.RLock()
	conns := s.clients[userID]
	s.mu.RUnlock()

	for _, c := range conns {
		select {
		case c.events <- event:
		default:
			s.log.Warn("sse event buffer full", "user_id", userID, "event", event.Type)
		}
	}
}

// PublishToOrganization broadcasts an event to all connected members of
// the organization.
func (s *Service) PublishToOrganization(orgID uuid.UUID, event Event) {
	s.mu.RLock()
	userIDs := make([]uuid.UUID, len(s.orgMap[orgID]))
	copy(userIDs, s.orgMap[orgID])
	s.mu.RUnlock()

	seen := make(map[uuid.UUID]bool)
	for _, userID := range userIDs {
		if seen[userID] {
			continue
		}
		seen[userID] = true
		s.Publish(userID, event)
	}
}

// ConnectionCount returns the number of open connections for a user.
func (s *Service) ConnectionCount(userID uuid.UUID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients[userID])
}

// Handler returns a Gin handler for SSE connections.
func (s *Service) Handler(getUserID func(*gin.Context) (uuid.UUID, bool), getOrgID func(*gin.Context) (uuid.UUID, bool)) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		orgID, _ := getOrgID(c)

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.Header().Set("X-Accel-Buffering", "no")

		cl := &client{
			userID: userID,
			orgID:  orgID,
			events: make(chan Event, 32),
		}
		s.addClient(cl)
		defer s.removeClient(cl)

		c.SSEvent("connected", gin.H{"userId": userID, "orgId": orgID})
		c.Writer.Flush()

		s.log.Debug("sse client connected", "user_id", userID, "org_id", orgID)

		clientGone := c.Request.Context().Done()
		for {
			select {
			case <-clientGone:
				s.log.Debug("sse client disconnected", "user_id", userID)
				return
			case event, ok := <-cl.events:
				if !ok {
					return
				}
				data, _ := json.Marshal(event)
				c.SSEvent(string(event.Type), string(data))
				c.Writer.Flush()
			}
		}
	}
}

// Close shuts down the SSE service and disconnects all clients.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, conns := range s.clients {
		for _, c := range conns {
			close(c.events)
		}
	}
	s.clients = make(map[uuid.UUID][]*client)
	s.orgMap = make(map[uuid.UUID][]uuid.UUID)
}
