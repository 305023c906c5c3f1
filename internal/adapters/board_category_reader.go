package adapters

import (
	"context"

	"github.com/google/uuid"

	boarddomain "flowboard_backend/internal/board/domain"
	"flowboard_backend/internal/services/service"
)

// BoardCategoryReader exposes the services module's active categories to the
// board, which needs only the name and the recurring flag.
type BoardCategoryReader struct {
	svc *service.Service
}

func NewBoardCategoryReader(svc *service.Service) *BoardCategoryReader {
	return &BoardCategoryReader{svc: svc}
}

func (a *BoardCategoryReader) ListCategories(ctx context.Context, tenantID uuid.UUID) ([]boarddomain.Category, error) {
	categories, err := a.svc.ListRaw(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]boarddomain.Category, 0, len(categories))
	for _, cat := range categories {
		out = append(out, boarddomain.Category{
			Name:        cat.Name,
			IsRecurring: cat.IsRecurring,
		})
	}
	return out, nil
}
