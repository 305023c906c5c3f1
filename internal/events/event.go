// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"flowboard_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Identity Domain Events
// =============================================================================

// OrganizationCreated is published when a new tenant organization is created.
// Modules subscribe to it to seed tenant defaults.
type OrganizationCreated struct {
	BaseEvent
	OrganizationID uuid.UUID `json:"organizationId"`
	OwnerID        uuid.UUID `json:"ownerId"`
	OwnerEmail     string    `json:"ownerEmail"`
}

func (e OrganizationCreated) EventName() string { return "identity.organization.created" }

// =============================================================================
// Board Domain Events
// =============================================================================

// BoardChanged is published when a tenant's board state changed: a stage
// mutation, a project move, or an accepted live snapshot. SSE fan-out
// subscribes to it.
type BoardChanged struct {
	BaseEvent
	TenantID uuid.UUID `json:"tenantId"`
	// Reason describes what changed: "stages", "project", "bootstrap".
	Reason string `json:"reason"`
}

func (e BoardChanged) EventName() string { return "board.changed" }

// TopologyBootstrapped is published after a tenant's default stage set was
// seeded.
type TopologyBootstrapped struct {
	BaseEvent
	TenantID   uuid.UUID `json:"tenantId"`
	StageCount int       `json:"stageCount"`
}

func (e TopologyBootstrapped) EventName() string { return "board.topology.bootstrapped" }

// =============================================================================
// Projects Domain Events
// =============================================================================

// ProjectCreated is published when a new project record is created.
type ProjectCreated struct {
	BaseEvent
	ProjectID uuid.UUID `json:"projectId"`
	TenantID  uuid.UUID `json:"tenantId"`
	Name      string    `json:"name"`
}

func (e ProjectCreated) EventName() string { return "projects.created" }

// ProjectReachedTerminalStage is published when a board move lands a project
// in a terminal column. The notification module mails the organization owner.
type ProjectReachedTerminalStage struct {
	BaseEvent
	ProjectID uuid.UUID `json:"projectId"`
	TenantID  uuid.UUID `json:"tenantId"`
	StageID   string    `json:"stageId"`
	Status    string    `json:"status"`
}

func (e ProjectReachedTerminalStage) EventName() string { return "projects.reached_terminal_stage" }
