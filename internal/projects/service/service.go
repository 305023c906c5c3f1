// Package service provides business logic for projects and their
// attachments.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"flowboard_backend/internal/adapters/storage"
	boarddomain "flowboard_backend/internal/board/domain"
	"flowboard_backend/internal/events"
	"flowboard_backend/internal/projects/repository"
	"flowboard_backend/internal/projects/transport"
	"flowboard_backend/platform/apperr"
	"flowboard_backend/platform/logger"
)

// AttachmentBucket names the MinIO bucket configuration used for project
// attachments.
type AttachmentBucket interface {
	GetMinioBucketProjectAttachments() string
}

// Service provides business logic for projects.
type Service struct {
	repo    repository.Repository
	storage storage.StorageService // nil when MinIO is not configured
	bucket  string
	bus     events.Bus
	log     *logger.Logger
}

// New creates a projects service. store may be nil; attachment endpoints
// then reject with a validation error.
func New(repo repository.Repository, store storage.StorageService, bucket string, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, storage: store, bucket: bucket, bus: bus, log: log}
}

// GetByID retrieves a project.
func (s *Service) GetByID(ctx context.Context, organizationID, id uuid.UUID) (transport.ProjectResponse, error) {
	project, err := s.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return transport.ProjectResponse{}, err
	}
	return toResponse(project), nil
}

// List retrieves a filtered, paginated project list.
func (s *Service) List(ctx context.Context, organizationID uuid.UUID, req transport.ListProjectsRequest) (transport.ProjectListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	items, total, err := s.repo.List(ctx, repository.ListParams{
		OrganizationID: organizationID,
		ServiceType:    req.ServiceType,
		Search:         req.Search,
		Offset:         (page - 1) * pageSize,
		Limit:          pageSize,
	})
	if err != nil {
		return transport.ProjectListResponse{}, err
	}

	responses := make([]transport.ProjectResponse, len(items))
	for i, item := range items {
		responses[i] = toResponse(item)
	}
	return transport.ProjectListResponse{
		Items:    responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Create creates a project. New projects enter the pipeline in the first
// normal stage.
func (s *Service) Create(ctx context.Context, organizationID uuid.UUID, req transport.CreateProjectRequest) (transport.ProjectResponse, error) {
	entry := boarddomain.Catalog(boarddomain.TopologyNormal).Templates[0]
	entryRef := entry.ID

	project, err := s.repo.Create(ctx, repository.CreateParams{
		OrganizationID: organizationID,
		Name:           req.Name,
		ClientName:     req.ClientName,
		ClientEmail:    req.ClientEmail,
		Description:    req.Description,
		ServiceTypes:   req.ServiceTypes,
		Status:         string(entry.Status),
		Progress:       entry.BaselineProgress,
		StageRef:       &entryRef,
		BudgetCents:    req.BudgetCents,
	})
	if err != nil {
		return transport.ProjectResponse{}, err
	}

	s.log.Info("project created", "id", project.ID, "name", project.Name, "organizationId", organizationID)
	if s.bus != nil {
		s.bus.Publish(ctx, events.ProjectCreated{
			BaseEvent: events.NewBaseEvent(),
			ProjectID: project.ID,
			TenantID:  organizationID,
			Name:      project.Name,
		})
	}
	return toResponse(project), nil
}

// Update applies a partial update to a project's own fields.
func (s *Service) Update(ctx context.Context, organizationID, id uuid.UUID, req transport.UpdateProjectRequest) (transport.ProjectResponse, error) {
	project, err := s.repo.Update(ctx, organizationID, repository.UpdateParams{
		ID:           id,
		Name:         req.Name,
		ClientName:   req.ClientName,
		ClientEmail:  req.ClientEmail,
		Description:  req.Description,
		ServiceTypes: req.ServiceTypes,
		BudgetCents:  req.BudgetCents,
	})
	if err != nil {
		return transport.ProjectResponse{}, err
	}

	s.log.Info("project updated", "id", project.ID)
	return toResponse(project), nil
}

// Delete removes a project and its stored attachments.
func (s *Service) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	if s.storage != nil {
		attachments, err := s.repo.ListAttachments(ctx, organizationID, id)
		if err != nil {
			return err
		}
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(4)
		for _, att := range attachments {
			fileKey := att.FileKey
			g.Go(func() error {
				if err := s.storage.DeleteObject(gctx, s.bucket, fileKey); err != nil {
					// The record delete cascades; orphaned objects are cheaper
					// than a blocked project delete.
					s.log.Warn("delete attachment object", "fileKey", fileKey, "error", err)
				}
				return nil
			})
		}
		_ = g.Wait()
	}

	if err := s.repo.Delete(ctx, organizationID, id); err != nil {
		return err
	}
	s.log.Info("project deleted", "id", id)
	return nil
}

// RequestUploadURL presigns an attachment upload for the project.
func (s *Service) RequestUploadURL(ctx context.Context, organizationID, projectID uuid.UUID, req transport.RequestUploadURLRequest) (transport.UploadURLResponse, error) {
	if s.storage == nil {
		return transport.UploadURLResponse{}, apperr.Validation("file storage is not configured")
	}

	// Project must exist and belong to the tenant.
	if _, err := s.repo.GetByID(ctx, organizationID, projectID); err != nil {
		return transport.UploadURLResponse{}, err
	}

	folder := fmt.Sprintf("%s/%s", organizationID, projectID)
	presigned, err := s.storage.GenerateUploadURL(ctx, s.bucket, folder, req.FileName, req.ContentType, req.SizeBytes)
	if err != nil {
		return transport.UploadURLResponse{}, apperr.Wrap(apperr.KindValidation, "could not presign upload", err)
	}

	return transport.UploadURLResponse{
		URL:       presigned.URL,
		FileKey:   presigned.FileKey,
		ExpiresAt: presigned.ExpiresAt,
	}, nil
}

// ConfirmAttachment records a completed upload.
func (s *Service) ConfirmAttachment(ctx context.Context, organizationID, projectID uuid.UUID, req transport.ConfirmAttachmentRequest) (transport.AttachmentResponse, error) {
	if _, err := s.repo.GetByID(ctx, organizationID, projectID); err != nil {
		return transport.AttachmentResponse{}, err
	}

	att, err := s.repo.CreateAttachment(ctx, repository.Attachment{
		OrganizationID: organizationID,
		ProjectID:      projectID,
		FileKey:        req.FileKey,
		FileName:       req.FileName,
		ContentType:    req.ContentType,
		SizeBytes:      req.SizeBytes,
	})
	if err != nil {
		return transport.AttachmentResponse{}, err
	}

	s.log.Info("project attachment recorded", "projectId", projectID, "fileKey", att.FileKey)
	return toAttachmentResponse(att, ""), nil
}

// ListAttachments returns the project's attachments with presigned download
// links.
func (s *Service) ListAttachments(ctx context.Context, organizationID, projectID uuid.UUID) ([]transport.AttachmentResponse, error) {
	attachments, err := s.repo.ListAttachments(ctx, organizationID, projectID)
	if err != nil {
		return nil, err
	}

	out := make([]transport.AttachmentResponse, 0, len(attachments))
	for _, att := range attachments {
		downloadURL := ""
		if s.storage != nil {
			presigned, err := s.storage.GenerateDownloadURL(ctx, s.bucket, att.FileKey)
			if err != nil {
				s.log.Warn("presign attachment download", "fileKey", att.FileKey, "error", err)
			} else {
				downloadURL = presigned.URL
			}
		}
		out = append(out, toAttachmentResponse(att, downloadURL))
	}
	return out, nil
}

// DeleteAttachment removes an attachment record and its stored object.
func (s *Service) DeleteAttachment(ctx context.Context, organizationID, attachmentID uuid.UUID) error {
	att, err := s.repo.GetAttachment(ctx, organizationID, attachmentID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteAttachment(ctx, organizationID, attachmentID); err != nil {
		return err
	}

	if s.storage != nil {
		if err := s.storage.DeleteObject(ctx, s.bucket, att.FileKey); err != nil {
			s.log.Warn("delete attachment object", "fileKey", att.FileKey, "error", err)
		}
	}

	s.log.Info("project attachment deleted", "id", attachmentID)
	return nil
}

func toResponse(p repository.Project) transport.ProjectResponse {
	serviceTypes := p.ServiceTypes
	if serviceTypes == nil {
		serviceTypes = []string{}
	}
	return transport.ProjectResponse{
		ID:           p.ID,
		Name:         p.Name,
		ClientName:   p.ClientName,
		ClientEmail:  p.ClientEmail,
		Description:  p.Description,
		ServiceTypes: serviceTypes,
		Status:       p.Status,
		Progress:     p.Progress,
		StageRef:     p.StageRef,
		BudgetCents:  p.BudgetCents,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toAttachmentResponse(att repository.Attachment, downloadURL string) transport.AttachmentResponse {
	return transport.AttachmentResponse{
		ID:          att.ID,
		FileName:    att.FileName,
		ContentType: att.ContentType,
		SizeBytes:   att.SizeBytes,
		DownloadURL: downloadURL,
		CreatedAt:   att.CreatedAt,
	}
}
