package repository

import (
	"context"

	"github.com/google/uuid"
)

// Project is the full project record. The board reads a projection of it
// (service types, status, progress, stage reference) through its own
// repository.
type Project struct {
	ID             uuid.UUID `db:"id"`
	OrganizationID uuid.UUID `db:"organization_id"`
	Name           string    `db:"name"`
	ClientName     *string   `db:"client_name"`
	ClientEmail    *string   `db:"client_email"`
	Description    *string   `db:"description"`
	ServiceTypes   []string  `db:"service_types"`
	Status         string    `db:"status"`
	Progress       int       `db:"progress"`
	StageRef       *string   `db:"stage_ref"`
	BudgetCents    *int64    `db:"budget_cents"`
	CreatedAt      string    `db:"created_at"`
	UpdatedAt      string    `db:"updated_at"`
}

// Attachment is a file stored against a project. The object itself lives in
// MinIO under FileKey; this record is the index.
type Attachment struct {
	ID             uuid.UUID `db:"id"`
	OrganizationID uuid.UUID `db:"organization_id"`
	ProjectID      uuid.UUID `db:"project_id"`
	FileKey        string    `db:"file_key"`
	FileName       string    `db:"file_name"`
	ContentType    string    `db:"content_type"`
	SizeBytes      int64     `db:"size_bytes"`
	CreatedAt      string    `db:"created_at"`
}

// CreateParams contains parameters for creating a project.
type CreateParams struct {
	OrganizationID uuid.UUID
	Name           string
	ClientName     *string
	ClientEmail    *string
	Description    *string
	ServiceTypes   []string
	Status         string
	Progress       int
	StageRef       *string
	BudgetCents    *int64
}

// UpdateParams contains parameters for updating a project. Nil fields are
// left unchanged; service types replace the whole array when set.
type UpdateParams struct {
	ID           uuid.UUID
	Name         *string
	ClientName   *string
	ClientEmail  *string
	Description  *string
	ServiceTypes []string
	BudgetCents  *int64
}

// ListParams filters the project list.
type ListParams struct {
	OrganizationID uuid.UUID
	ServiceType    string // empty selects all
	Search         string
	Offset         int
	Limit          int
}

// ProjectReader provides read operations for projects.
type ProjectReader interface {
	GetByID(ctx context.Context, organizationID, id uuid.UUID) (Project, error)
	List(ctx context.Context, params ListParams) ([]Project, int, error)
}

// ProjectWriter provides write operations for projects.
type ProjectWriter interface {
	Create(ctx context.Context, params CreateParams) (Project, error)
	Update(ctx context.Context, organizationID uuid.UUID, params UpdateParams) (Project, error)
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
}

// AttachmentStore provides operations on project attachment records.
type AttachmentStore interface {
	CreateAttachment(ctx context.Context, attachment Attachment) (Attachment, error)
	ListAttachments(ctx context.Context, organizationID, projectID uuid.UUID) ([]Attachment, error)
	GetAttachment(ctx context.Context, organizationID, attachmentID uuid.UUID) (Attachment, error)
	DeleteAttachment(ctx context.Context, organizationID, attachmentID uuid.UUID) error
}

// Repository combines all project repository operations.
type Repository interface {
	ProjectReader
	ProjectWriter
	AttachmentStore
}
