package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"flowboard_backend/platform/apperr"
	"flowboard_backend/platform/logger"
)

func TestCreateRejectsBlankName(t *testing.T) {
	svc := New(nil, nil, nil, logger.New("development"))

	_, err := svc.Create(context.Background(), uuid.New(), "   ")
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRenameRejectsBlankName(t *testing.T) {
	svc := New(nil, nil, nil, logger.New("development"))

	_, err := svc.Rename(context.Background(), uuid.New(), "")
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
