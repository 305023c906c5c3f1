package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"flowboard_backend/internal/adapters/storage"
	"flowboard_backend/internal/projects/repository"
	"flowboard_backend/internal/projects/transport"
	"flowboard_backend/platform/apperr"
	"flowboard_backend/platform/logger"
)

type fakeProjectRepo struct {
	mu          sync.Mutex
	projects    map[uuid.UUID]repository.Project
	attachments map[uuid.UUID]repository.Attachment
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{
		projects:    make(map[uuid.UUID]repository.Project),
		attachments: make(map[uuid.UUID]repository.Attachment),
	}
}

func (r *fakeProjectRepo) GetByID(_ context.Context, organizationID, id uuid.UUID) (repository.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok || p.OrganizationID != organizationID {
		return repository.Project{}, apperr.NotFound("project not found")
	}
	return p, nil
}

func (r *fakeProjectRepo) List(_ context.Context, params repository.ListParams) ([]repository.Project, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []repository.Project
	for _, p := range r.projects {
		if p.OrganizationID != params.OrganizationID {
			continue
		}
		if params.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(params.Search)) {
			continue
		}
		all = append(all, p)
	}
	total := len(all)
	if params.Offset >= len(all) {
		return nil, total, nil
	}
	all = all[params.Offset:]
	if params.Limit < len(all) {
		all = all[:params.Limit]
	}
	return all, total, nil
}

func (r *fakeProjectRepo) Create(_ context.Context, params repository.CreateParams) (repository.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := repository.Project{
		ID:             uuid.New(),
		OrganizationID: params.OrganizationID,
		Name:           params.Name,
		ClientName:     params.ClientName,
		ClientEmail:    params.ClientEmail,
		Description:    params.Description,
		ServiceTypes:   params.ServiceTypes,
		Status:         params.Status,
		Progress:       params.Progress,
		StageRef:       params.StageRef,
		BudgetCents:    params.BudgetCents,
		CreatedAt:      time.Now().Format(time.RFC3339),
		UpdatedAt:      time.Now().Format(time.RFC3339),
	}
	r.projects[p.ID] = p
	return p, nil
}

func (r *fakeProjectRepo) Update(_ context.Context, organizationID uuid.UUID, params repository.UpdateParams) (repository.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[params.ID]
	if !ok || p.OrganizationID != organizationID {
		return repository.Project{}, apperr.NotFound("project not found")
	}
	if params.Name != nil {
		p.Name = *params.Name
	}
	if params.ServiceTypes != nil {
		p.ServiceTypes = params.ServiceTypes
	}
	r.projects[params.ID] = p
	return p, nil
}

func (r *fakeProjectRepo) Delete(_ context.Context, organizationID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok || p.OrganizationID != organizationID {
		return apperr.NotFound("project not found")
	}
	delete(r.projects, id)
	for attID, att := range r.attachments {
		if att.ProjectID == id {
			delete(r.attachments, attID)
		}
	}
	return nil
}

func (r *fakeProjectRepo) CreateAttachment(_ context.Context, att repository.Attachment) (repository.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	att.ID = uuid.New()
	att.CreatedAt = time.Now().Format(time.RFC3339)
	r.attachments[att.ID] = att
	return att, nil
}

func (r *fakeProjectRepo) ListAttachments(_ context.Context, organizationID, projectID uuid.UUID) ([]repository.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []repository.Attachment
	for _, att := range r.attachments {
		if att.OrganizationID == organizationID && att.ProjectID == projectID {
			out = append(out, att)
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) GetAttachment(_ context.Context, organizationID, attachmentID uuid.UUID) (repository.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	att, ok := r.attachments[attachmentID]
	if !ok || att.OrganizationID != organizationID {
		return repository.Attachment{}, apperr.NotFound("attachment not found")
	}
	return att, nil
}

func (r *fakeProjectRepo) DeleteAttachment(_ context.Context, organizationID, attachmentID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	att, ok := r.attachments[attachmentID]
	if !ok || att.OrganizationID != organizationID {
		return apperr.NotFound("attachment not found")
	}
	delete(r.attachments, attachmentID)
	return nil
}

var _ repository.Repository = (*fakeProjectRepo)(nil)

// fakeStorage records deletions and presigns deterministic URLs.
type fakeStorage struct {
	mu      sync.Mutex
	deleted []string
}

func (s *fakeStorage) GenerateUploadURL(_ context.Context, bucket, folder, fileName, _ string, _ int64) (*storage.PresignedURL, error) {
	key := folder + "/" + fileName
	return &storage.PresignedURL{
		URL:       fmt.Sprintf("https://minio.test/%s/%s", bucket, key),
		FileKey:   key,
		ExpiresAt: time.Now().Add(15 * time.Minute),
	}, nil
}

func (s *fakeStorage) GenerateDownloadURL(_ context.Context, bucket, fileKey string) (*storage.PresignedURL, error) {
	return &storage.PresignedURL{
		URL:       fmt.Sprintf("https://minio.test/%s/%s", bucket, fileKey),
		FileKey:   fileKey,
		ExpiresAt: time.Now().Add(15 * time.Minute),
	}, nil
}

func (s *fakeStorage) DownloadFile(context.Context, string, string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

func (s *fakeStorage) DeleteObject(_ context.Context, _ string, fileKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, fileKey)
	return nil
}

func (s *fakeStorage) UploadFile(_ context.Context, _, folder, fileName, _ string, _ io.Reader, _ int64) (string, error) {
	return folder + "/" + fileName, nil
}

func (s *fakeStorage) EnsureBucketExists(context.Context, string) error { return nil }
func (s *fakeStorage) ValidateContentType(string) error                 { return nil }
func (s *fakeStorage) ValidateFileSize(int64) error                     { return nil }
func (s *fakeStorage) GetMaxFileSize() int64                            { return 50 * 1024 * 1024 }

var _ storage.StorageService = (*fakeStorage)(nil)

func newTestService(store storage.StorageService) (*Service, *fakeProjectRepo, uuid.UUID) {
	repo := newFakeProjectRepo()
	return New(repo, store, "project-attachments", nil, logger.New("development")), repo, uuid.New()
}

func TestCreateEntersFirstNormalStage(t *testing.T) {
	svc, _, orgID := newTestService(nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, orgID, transport.CreateProjectRequest{
		Name:         "Relaunch",
		ServiceTypes: []string{"Webdesign"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if created.Status != "Lead" {
		t.Fatalf("expected status Lead, got %s", created.Status)
	}
	if created.Progress != 10 {
		t.Fatalf("expected baseline progress 10, got %d", created.Progress)
	}
	if created.StageRef == nil || *created.StageRef != "onboarding" {
		t.Fatalf("expected stage ref onboarding, got %v", created.StageRef)
	}
}

func TestListClampsPagination(t *testing.T) {
	svc, _, orgID := newTestService(nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, orgID, transport.CreateProjectRequest{
			Name:         fmt.Sprintf("Project %d", i),
			ServiceTypes: []string{"Webdesign"},
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	resp, err := svc.List(ctx, orgID, transport.ListProjectsRequest{Page: 0, PageSize: -5})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if resp.Page != 1 || resp.PageSize != 20 {
		t.Fatalf("expected defaults page 1 size 20, got page %d size %d", resp.Page, resp.PageSize)
	}
	if resp.Total != 3 {
		t.Fatalf("expected 3 projects, got %d", resp.Total)
	}

	resp, err = svc.List(ctx, orgID, transport.ListProjectsRequest{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if len(resp.Items) != 1 || resp.Total != 3 {
		t.Fatalf("expected 1 item on last page of 3, got %d", len(resp.Items))
	}
}

func TestDeleteRemovesStoredAttachments(t *testing.T) {
	store := &fakeStorage{}
	svc, repo, orgID := newTestService(store)
	ctx := context.Background()

	project, err := svc.Create(ctx, orgID, transport.CreateProjectRequest{
		Name:         "With files",
		ServiceTypes: []string{"Webshop"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, key := range []string{"a/logo.png", "a/brief.pdf"} {
		_, err := repo.CreateAttachment(ctx, repository.Attachment{
			OrganizationID: orgID,
			ProjectID:      project.ID,
			FileKey:        key,
			FileName:       key,
		})
		if err != nil {
			t.Fatalf("create attachment: %v", err)
		}
	}

	if err := svc.Delete(ctx, orgID, project.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if len(store.deleted) != 2 {
		t.Fatalf("expected 2 deleted objects, got %d", len(store.deleted))
	}
	if _, err := svc.GetByID(ctx, orgID, project.ID); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected project gone, got %v", err)
	}
}

func TestUploadURLRequiresStorage(t *testing.T) {
	svc, _, orgID := newTestService(nil)
	ctx := context.Background()

	_, err := svc.RequestUploadURL(ctx, orgID, uuid.New(), transport.RequestUploadURLRequest{
		FileName:    "logo.png",
		ContentType: "image/png",
		SizeBytes:   1024,
	})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error without storage, got %v", err)
	}
}

func TestUploadURLScopesFileKeyToTenantAndProject(t *testing.T) {
	svc, _, orgID := newTestService(&fakeStorage{})
	ctx := context.Background()

	project, err := svc.Create(ctx, orgID, transport.CreateProjectRequest{
		Name:         "Scoped",
		ServiceTypes: []string{"SEO"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	resp, err := svc.RequestUploadURL(ctx, orgID, project.ID, transport.RequestUploadURLRequest{
		FileName:    "contract.pdf",
		ContentType: "application/pdf",
		SizeBytes:   2048,
	})
	if err != nil {
		t.Fatalf("request upload url: %v", err)
	}

	wantPrefix := fmt.Sprintf("%s/%s/", orgID, project.ID)
	if !strings.HasPrefix(resp.FileKey, wantPrefix) {
		t.Fatalf("file key %q not scoped under %q", resp.FileKey, wantPrefix)
	}
}

func TestListAttachmentsPresignsDownloads(t *testing.T) {
	store := &fakeStorage{}
	svc, repo, orgID := newTestService(store)
	ctx := context.Background()

	project, err := svc.Create(ctx, orgID, transport.CreateProjectRequest{
		Name:         "Downloads",
		ServiceTypes: []string{"Hosting"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := repo.CreateAttachment(ctx, repository.Attachment{
		OrganizationID: orgID,
		ProjectID:      project.ID,
		FileKey:        "x/report.pdf",
		FileName:       "report.pdf",
	}); err != nil {
		t.Fatalf("create attachment: %v", err)
	}

	items, err := svc.ListAttachments(ctx, orgID, project.ID)
	if err != nil {
		t.Fatalf("list attachments: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 attachment, got %d", len(items))
	}
	if items[0].DownloadURL == "" {
		t.Fatal("expected presigned download url")
	}
}
