// Package handler exposes the board's HTTP endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"flowboard_backend/internal/board/domain"
	"flowboard_backend/internal/board/service"
	"flowboard_backend/internal/board/transport"
	"flowboard_backend/platform/httpkit"
	"flowboard_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.GetBoard)
	rg.GET("/stages", h.ListStages)
	rg.POST("/stages", h.CreateStage)
	rg.POST("/stages/reorder", h.ReorderStage)
	rg.DELETE("/stages/:id", h.DeleteStage)
	rg.POST("/move", h.MoveProject)
	rg.POST("/session", h.StartSession)
	rg.DELETE("/session", h.StopSession)
}

// GetBoard returns the resolved columns for the requested service filter.
// Defaults to the combined view.
func (h *Handler) GetBoard(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	filter := c.DefaultQuery("service", domain.ServiceFilterAll)

	columns, err := h.svc.ColumnsForView(c.Request.Context(), tenantID, filter)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := transport.BoardResponse{
		ServiceFilter: filter,
		Columns:       make([]transport.ColumnResponse, 0, len(columns)),
	}
	for _, column := range columns {
		out := transport.ColumnResponse{
			Stage:    transport.StageFromDomain(column.Stage),
			Projects: make([]transport.ProjectCardResponse, 0, len(column.Projects)),
		}
		for _, project := range column.Projects {
			out.Projects = append(out.Projects, transport.ProjectCardFromDomain(project))
		}
		resp.Columns = append(resp.Columns, out)
	}
	httpkit.OK(c, resp)
}

func (h *Handler) ListStages(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	stages, err := h.svc.ListStages(c.Request.Context(), tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := make([]transport.StageResponse, 0, len(stages))
	for _, stage := range stages {
		resp = append(resp, transport.StageFromDomain(stage))
	}
	httpkit.OK(c, resp)
}

func (h *Handler) CreateStage(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	var req transport.CreateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	stage, err := h.svc.CreateStage(c.Request.Context(), tenantID, req.Title)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.StageFromDomain(stage))
}

func (h *Handler) ReorderStage(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	var req transport.ReorderStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	err := h.svc.ReorderStage(c.Request.Context(), tenantID, req.DraggedID, req.TargetID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.NoContent(c)
}

func (h *Handler) DeleteStage(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	stageID := c.Param("id")
	if stageID == "" {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	err := h.svc.DeleteStage(c.Request.Context(), tenantID, stageID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.NoContent(c)
}

// MoveProject applies a drag-drop of a project card onto a stage column.
// The service filter the board was rendered under travels with the request
// because membership depends on it.
func (h *Handler) MoveProject(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	var req transport.MoveProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	filter := c.DefaultQuery("service", domain.ServiceFilterAll)

	err := h.svc.MoveProject(c.Request.Context(), tenantID, req.ProjectID, req.StageID, filter)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.NoContent(c)
}

// StartSession attaches the tenant's live stage subscription; the first
// call for an empty tenant also seeds the default topology.
func (h *Handler) StartSession(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	if err := h.svc.StartSession(c.Request.Context(), tenantID); httpkit.HandleError(c, err) {
		return
	}
	httpkit.NoContent(c)
}

func (h *Handler) StopSession(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	h.svc.StopSession(tenantID)
	httpkit.NoContent(c)
}

func (h *Handler) tenantID(c *gin.Context) (uuid.UUID, bool) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return uuid.Nil, false
	}
	return httpkit.MustGetTenantID(c, id)
}
