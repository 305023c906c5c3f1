package transport

import "time"

type CreateOrganizationRequest struct {
	Name string `json:"name" validate:"required,min=2,max=120"`
}

type RenameOrganizationRequest struct {
	Name string `json:"name" validate:"required,min=2,max=120"`
}

type OrganizationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
