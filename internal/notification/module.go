// Package notification fans out domain events: live board updates over
// SSE and emails to organization owners. Domain modules publish events
// and stay unaware of delivery channels.
package notification

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"flowboard_backend/internal/events"
	apphttp "flowboard_backend/internal/http"
	"flowboard_backend/internal/notification/email"
	"flowboard_backend/internal/notification/sse"
	"flowboard_backend/platform/httpkit"
	"flowboard_backend/platform/logger"
)

// OwnerDirectory resolves the owner email of an organization.
type OwnerDirectory interface {
	OwnerEmail(ctx context.Context, organizationID uuid.UUID) (string, error)
}

// ProjectDirectory resolves project display names.
type ProjectDirectory interface {
	ProjectName(ctx context.Context, tenantID, projectID uuid.UUID) (string, error)
}

// Module is the notification module implementing http.Module.
type Module struct {
	sse      *sse.Service
	mailer   email.Sender
	owners   OwnerDirectory
	projects ProjectDirectory
	log      *logger.Logger
}

// NewModule creates the notification module. mailer may be nil when
// email sending is disabled; owner emails are then skipped.
func NewModule(mailer email.Sender, owners OwnerDirectory, projects ProjectDirectory, log *logger.Logger) *Module {
	return &Module{
		sse:      sse.New(log),
		mailer:   mailer,
		owners:   owners,
		projects: projects,
		log:      log,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "notification"
}

// SSE returns the SSE service for direct publishing.
func (m *Module) SSE() *sse.Service {
	return m.sse
}

// Close disconnects all SSE clients.
func (m *Module) Close() {
	m.sse.Close()
}

// RegisterRoutes mounts the SSE stream endpoint. The auth middleware
// accepts the token as a query parameter because EventSource cannot set
// headers.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/events/stream", m.sse.Handler(userIDFrom, orgIDFrom))
}

// RegisterHandlers subscribes to the domain events this module delivers.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.BoardChanged{}.EventName(), m)
	bus.Subscribe(events.TopologyBootstrapped{}.EventName(), m)
	bus.Subscribe(events.ProjectReachedTerminalStage{}.EventName(), m)
}

// Handle routes events to the appropriate delivery channel.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.BoardChanged:
		m.sse.PublishToOrganization(e.TenantID, sse.Event{
			Type:     sse.EventBoardChanged,
			TenantID: e.TenantID,
			Reason:   e.Reason,
		})
		return nil
	case events.TopologyBootstrapped:
		m.sse.PublishToOrganization(e.TenantID, sse.Event{
			Type:     sse.EventBoardBootstrapped,
			TenantID: e.TenantID,
			Data:     gin.H{"stageCount": e.StageCount},
		})
		return nil
	case events.ProjectReachedTerminalStage:
		return m.handleProjectCompleted(ctx, e)
	default:
		return nil
	}
}

func (m *Module) handleProjectCompleted(ctx context.Context, e events.ProjectReachedTerminalStage) error {
	m.sse.PublishToOrganization(e.TenantID, sse.Event{
		Type:     sse.EventProjectCompleted,
		TenantID: e.TenantID,
		Data:     gin.H{"projectId": e.ProjectID, "stageId": e.StageID, "status": e.Status},
	})

	if m.mailer == nil || m.owners == nil {
		return nil
	}

	toEmail, err := m.owners.OwnerEmail(ctx, e.TenantID)
	if err != nil {
		m.log.Warn("failed to resolve owner email", "tenant_id", e.TenantID, "error", err)
		return nil
	}

	projectName := e.ProjectID.String()
	if m.projects != nil {
		if name, err := m.projects.ProjectName(ctx, e.TenantID, e.ProjectID); err == nil && name != "" {
			projectName = name
		}
	}

	if err := m.mailer.SendProjectCompletedEmail(ctx, toEmail, email.ProjectCompletedData{
		ProjectName: projectName,
		Status:      e.Status,
	}); err != nil {
		m.log.Warn("failed to send project completed email",
			"tenant_id", e.TenantID, "project_id", e.ProjectID, "error", err)
	}
	return nil
}

func userIDFrom(c *gin.Context) (uuid.UUID, bool) {
	id := httpkit.GetIdentity(c)
	if !id.IsAuthenticated() {
		return uuid.Nil, false
	}
	return id.UserID(), true
}

func orgIDFrom(c *gin.Context) (uuid.UUID, bool) {
	id := httpkit.GetIdentity(c)
	if !id.IsAuthenticated() || id.TenantID() == uuid.Nil {
		return uuid.Nil, false
	}
	return id.TenantID(), true
}

var _ apphttp.Module = (*Module)(nil)
