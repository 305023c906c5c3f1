// Package handler exposes the organization HTTP endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"flowboard_backend/internal/identity/repository"
	"flowboard_backend/internal/identity/service"
	"flowboard_backend/internal/identity/transport"
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

// Create creates an organization for the authenticated user. Users that
// already belong to an organization cannot create another one.
func (h *Handler) Create(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	if id.TenantID() != uuid.Nil {
		httpkit.Error(c, http.StatusConflict, "user already belongs to an organization", nil)
		return
	}

	var req transport.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	org, err := h.svc.Create(c.Request.Context(), id.UserID(), req.Name)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, organizationResponse(org))
}

// GetMine returns the authenticated user's organization.
func (h *Handler) GetMine(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	org, err := h.svc.Get(c.Request.Context(), tenantID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, organizationResponse(org))
}

// Rename changes the organization name.
func (h *Handler) Rename(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	var req transport.RenameOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	org, err := h.svc.Rename(c.Request.Context(), tenantID, req.Name)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, organizationResponse(org))
}

func (h *Handler) tenantID(c *gin.Context) (uuid.UUID, bool) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return uuid.Nil, false
	}
	return httpkit.MustGetTenantID(c, id)
}

func organizationResponse(org repository.Organization) transport.OrganizationResponse {
	return transport.OrganizationResponse{
		ID:        org.ID.String(),
		Name:      org.Name,
		OwnerID:   org.OwnerID.String(),
		CreatedAt: org.CreatedAt,
		UpdatedAt: org.UpdatedAt,
	}
}
