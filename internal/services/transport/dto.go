package transport

import "github.com/google/uuid"

// CreateCategoryRequest contains data for creating a new service category.
type CreateCategoryRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=100"`
	IsRecurring  bool   `json:"isRecurring"`
	DisplayOrder *int   `json:"displayOrder,omitempty" validate:"omitempty,min=0"`
}

// UpdateCategoryRequest contains data for updating an existing category.
type UpdateCategoryRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	IsRecurring  *bool   `json:"isRecurring,omitempty"`
	DisplayOrder *int    `json:"displayOrder,omitempty" validate:"omitempty,min=0"`
}

// CategoryResponse represents a service category in API responses.
type CategoryResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	IsRecurring  bool      `json:"isRecurring"`
	IsActive     bool      `json:"isActive"`
	DisplayOrder int       `json:"displayOrder"`
	CreatedAt    string    `json:"createdAt"`
	UpdatedAt    string    `json:"updatedAt"`
}

// CategoryListResponse wraps a list of categories.
type CategoryListResponse struct {
	Items []CategoryResponse `json:"items"`
	Total int                `json:"total"`
}

// DeleteCategoryResponse reports whether the category was deleted or only
// deactivated because projects still reference it.
type DeleteCategoryResponse struct {
	Status string `json:"status"` // "deleted" or "deactivated"
}
