package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateProjectRequest contains data for creating a new project.
type CreateProjectRequest struct {
	Name         string   `json:"name" validate:"required,min=1,max=200"`
	ClientName   *string  `json:"clientName,omitempty" validate:"omitempty,max=200"`
	ClientEmail  *string  `json:"clientEmail,omitempty" validate:"omitempty,email"`
	Description  *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	ServiceTypes []string `json:"serviceTypes" validate:"required,min=1,dive,min=1,max=100"`
	BudgetCents  *int64   `json:"budgetCents,omitempty" validate:"omitempty,min=0"`
}

// UpdateProjectRequest contains data for updating a project. Board-derived
// fields (status, progress, stage reference) change through board moves
// only.
type UpdateProjectRequest struct {
	Name         *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	ClientName   *string  `json:"clientName,omitempty" validate:"omitempty,max=200"`
	ClientEmail  *string  `json:"clientEmail,omitempty" validate:"omitempty,email"`
	Description  *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	ServiceTypes []string `json:"serviceTypes,omitempty" validate:"omitempty,min=1,dive,min=1,max=100"`
	BudgetCents  *int64   `json:"budgetCents,omitempty" validate:"omitempty,min=0"`
}

// ListProjectsRequest filters the project list.
type ListProjectsRequest struct {
	ServiceType string `form:"serviceType"`
	Search      string `form:"search"`
	Page        int    `form:"page"`
	PageSize    int    `form:"pageSize"`
}

// ProjectResponse represents a project in API responses.
type ProjectResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ClientName   *string   `json:"clientName,omitempty"`
	ClientEmail  *string   `json:"clientEmail,omitempty"`
	Description  *string   `json:"description,omitempty"`
	ServiceTypes []string  `json:"serviceTypes"`
	Status       string    `json:"status"`
	Progress     int       `json:"progress"`
	StageRef     *string   `json:"stageRef,omitempty"`
	BudgetCents  *int64    `json:"budgetCents,omitempty"`
	CreatedAt    string    `json:"createdAt"`
	UpdatedAt    string    `json:"updatedAt"`
}

// ProjectListResponse wraps a paginated list of projects.
type ProjectListResponse struct {
	Items    []ProjectResponse `json:"items"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

// RequestUploadURLRequest asks for a presigned attachment upload URL.
type RequestUploadURLRequest struct {
	FileName    string `json:"fileName" validate:"required,min=1,max=255"`
	ContentType string `json:"contentType" validate:"required,min=1,max=100"`
	SizeBytes   int64  `json:"sizeBytes" validate:"required,min=1"`
}

// UploadURLResponse carries a presigned upload URL and the file key the
// client must confirm with.
type UploadURLResponse struct {
	URL       string    `json:"url"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ConfirmAttachmentRequest records a completed upload against the project.
type ConfirmAttachmentRequest struct {
	FileKey     string `json:"fileKey" validate:"required,min=1,max=500"`
	FileName    string `json:"fileName" validate:"required,min=1,max=255"`
	ContentType string `json:"contentType" validate:"required,min=1,max=100"`
	SizeBytes   int64  `json:"sizeBytes" validate:"required,min=1"`
}

// AttachmentResponse represents an attachment; DownloadURL is a short-lived
// presigned link.
type AttachmentResponse struct {
	ID          uuid.UUID `json:"id"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	DownloadURL string    `json:"downloadUrl,omitempty"`
	CreatedAt   string    `json:"createdAt"`
}
