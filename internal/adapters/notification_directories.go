package adapters

import (
	"context"

	"github.com/google/uuid"

	authservice "flowboard_backend/internal/auth/service"
	identityservice "flowboard_backend/internal/identity/service"
	"flowboard_backend/internal/notification"
	projectsrepo "flowboard_backend/internal/projects/repository"
)

// OrganizationOwnerDirectory resolves the owner email of an organization
// by combining the identity and auth domains.
type OrganizationOwnerDirectory struct {
	identity *identityservice.Service
	auth     *authservice.Service
}

// NewOrganizationOwnerDirectory creates the directory adapter.
func NewOrganizationOwnerDirectory(identity *identityservice.Service, auth *authservice.Service) *OrganizationOwnerDirectory {
	return &OrganizationOwnerDirectory{identity: identity, auth: auth}
}

// OwnerEmail returns the email address of the organization owner.
func (d *OrganizationOwnerDirectory) OwnerEmail(ctx context.Context, organizationID uuid.UUID) (string, error) {
	org, err := d.identity.Get(ctx, organizationID)
	if err != nil {
		return "", err
	}
	profile, err := d.auth.Me(ctx, org.OwnerID)
	if err != nil {
		return "", err
	}
	return profile.Email, nil
}

// ProjectNameDirectory resolves project display names from the projects
// repository.
type ProjectNameDirectory struct {
	projects projectsrepo.ProjectReader
}

// NewProjectNameDirectory creates the directory adapter.
func NewProjectNameDirectory(projects projectsrepo.ProjectReader) *ProjectNameDirectory {
	return &ProjectNameDirectory{projects: projects}
}

// ProjectName returns the project's name.
func (d *ProjectNameDirectory) ProjectName(ctx context.Context, tenantID, projectID uuid.UUID) (string, error) {
	project, err := d.projects.GetByID(ctx, tenantID, projectID)
	if err != nil {
		return "", err
	}
	return project.Name, nil
}

var (
	_ notification.OwnerDirectory   = (*OrganizationOwnerDirectory)(nil)
	_ notification.ProjectDirectory = (*ProjectNameDirectory)(nil)
)
