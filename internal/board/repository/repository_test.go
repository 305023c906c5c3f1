package repository

import (
	"regexp"
	"testing"

	"github.com/google/uuid"

	"flowboard_backend/internal/board/domain"
	"flowboard_backend/migrations"
)

// Custom stages have no template ancestry, so their original_id must be
// written as NULL. The schema test below keeps the column nullable to
// match; the two together pin the write contract for board_stages.

func TestStageArgsBindNullOriginalIDForCustomStages(t *testing.T) {
	tenantID := uuid.New()
	custom := domain.Stage{
		ID:       "vip-klanten-" + tenantID.String(),
		TenantID: tenantID,
		Title:    "VIP klanten",
		Status:   domain.StatusActive,
		Order:    5,
		Progress: 30,
	}

	args := stageArgs(custom)
	if len(args) != 8 {
		t.Fatalf("expected 8 bind args, got %d", len(args))
	}
	ptr, ok := args[7].(*string)
	if !ok {
		t.Fatalf("original_id arg has type %T, expected *string", args[7])
	}
	if ptr != nil {
		t.Fatalf("expected NULL original_id for a custom stage, got %q", *ptr)
	}
}

func TestStageArgsBindTemplateOriginalID(t *testing.T) {
	tenantID := uuid.New()
	stage := domain.Stage{
		ID:         "development-" + tenantID.String(),
		TenantID:   tenantID,
		Title:      "Development",
		Status:     domain.StatusActive,
		Order:      1,
		Progress:   30,
		IsFixed:    true,
		OriginalID: "development",
	}

	args := stageArgs(stage)
	ptr, ok := args[7].(*string)
	if !ok || ptr == nil {
		t.Fatalf("expected bound original_id, got %v", args[7])
	}
	if *ptr != "development" {
		t.Fatalf("expected original_id development, got %q", *ptr)
	}
}

func TestBoardStagesSchemaAcceptsNullOriginalID(t *testing.T) {
	sql, err := migrations.FS.ReadFile("0004_board_stages.sql")
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}

	if !regexp.MustCompile(`(?m)^\s*original_id\s+TEXT\s*,`).Match(sql) {
		t.Fatal("original_id must stay a nullable TEXT column; custom stages are written with NULL")
	}
	if regexp.MustCompile(`original_id\s+TEXT\s+NOT\s+NULL`).Match(sql) {
		t.Fatal("original_id must not be NOT NULL; every custom stage upsert would fail")
	}
}
