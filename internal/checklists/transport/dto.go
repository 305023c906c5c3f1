package transport

import "github.com/google/uuid"

// CreateItemRequest adds a checklist item to a stage.
type CreateItemRequest struct {
	Label string `json:"label" validate:"required,min=1,max=300"`
}

// UpdateItemRequest updates an item's label or done flag.
type UpdateItemRequest struct {
	Label *string `json:"label,omitempty" validate:"omitempty,min=1,max=300"`
	Done  *bool   `json:"done,omitempty"`
}

// ItemResponse represents a checklist item in API responses.
type ItemResponse struct {
	ID          uuid.UUID `json:"id"`
	StageBaseID string    `json:"stageBaseId"`
	Label       string    `json:"label"`
	Done        bool      `json:"done"`
	Position    int       `json:"position"`
	CreatedAt   string    `json:"createdAt"`
	UpdatedAt   string    `json:"updatedAt"`
}

// ChecklistResponse wraps a stage's checklist with completion counts.
type ChecklistResponse struct {
	StageBaseID string         `json:"stageBaseId"`
	Items       []ItemResponse `json:"items"`
	DoneCount   int            `json:"doneCount"`
	Total       int            `json:"total"`
}
