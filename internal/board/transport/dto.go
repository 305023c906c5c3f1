package transport

import (
	"github.com/google/uuid"

	"flowboard_backend/internal/board/domain"
)

// Request DTOs

type CreateStageRequest struct {
	Title string `json:"title" validate:"required,min=1,max=100"`
}

type ReorderStageRequest struct {
	DraggedID string `json:"draggedId" validate:"required"`
	TargetID  string `json:"targetId" validate:"required"`
}

type MoveProjectRequest struct {
	ProjectID uuid.UUID `json:"projectId" validate:"required"`
	StageID   string    `json:"stageId" validate:"required"`
}

// Response DTOs

type StageResponse struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Status     string `json:"status"`
	Order      int    `json:"order"`
	Progress   int    `json:"progress"`
	IsFixed    bool   `json:"isFixed"`
	OriginalID string `json:"originalId,omitempty"`
}

type ProjectCardResponse struct {
	ID           uuid.UUID `json:"id"`
	ServiceTypes []string  `json:"serviceTypes"`
	Status       string    `json:"status"`
	Progress     int       `json:"progress"`
	StageRef     string    `json:"stageRef,omitempty"`
}

type ColumnResponse struct {
	Stage    StageResponse         `json:"stage"`
	Projects []ProjectCardResponse `json:"projects"`
}

type BoardResponse struct {
	ServiceFilter string           `json:"serviceFilter"`
	Columns       []ColumnResponse `json:"columns"`
}

func StageFromDomain(stage domain.Stage) StageResponse {
	return StageResponse{
		ID:         stage.ID,
		Title:      stage.Title,
		Status:     string(stage.Status),
		Order:      stage.Order,
		Progress:   stage.Progress,
		IsFixed:    stage.IsFixed,
		OriginalID: stage.OriginalID,
	}
}

func ProjectCardFromDomain(project domain.Project) ProjectCardResponse {
	serviceTypes := project.ServiceTypes
	if serviceTypes == nil {
		serviceTypes = []string{}
	}
	return ProjectCardResponse{
		ID:           project.ID,
		ServiceTypes: serviceTypes,
		Status:       string(project.Status),
		Progress:     project.Progress,
		StageRef:     project.StageRef,
	}
}
