package domain

import (
	"testing"

	"github.com/google/uuid"
)

func testTenantID(t *testing.T) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse("6f1f64a4-9f8e-4a5e-bb1e-0d5a3a1c2b3d")
	if err != nil {
		t.Fatalf("parse tenant id: %v", err)
	}
	return id
}
