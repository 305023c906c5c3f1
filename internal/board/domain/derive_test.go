package domain

import "testing"

func customStage(id string, order int) Stage {
	return Stage{ID: id, Title: id, Order: order, Status: StatusActive, Progress: 0}
}

func TestNormalizeEmptyInput(t *testing.T) {
	out := Normalize(nil)
	if len(out) != 0 {
		t.Fatalf("expected empty output, got %d stages", len(out))
	}
}

func TestNormalizeAssignsDenseOrder(t *testing.T) {
	stages := []Stage{
		customStage("a", 7),
		customStage("b", 2),
		customStage("c", 2),
	}

	out := Normalize(stages)
	for i, stage := range out {
		if stage.Order != i {
			t.Fatalf("stage %s: expected order %d, got %d", stage.ID, i, stage.Order)
		}
	}
}

func TestNormalizeSingleCustomStage(t *testing.T) {
	out := Normalize([]Stage{customStage("only", 0)})
	if out[0].Progress != 100 {
		t.Fatalf("single stage should get progress 100, got %d", out[0].Progress)
	}
	if out[0].Status != StatusLead {
		t.Fatalf("first stage should get Lead status, got %s", out[0].Status)
	}
}

func TestNormalizeCustomStagePositions(t *testing.T) {
	stages := []Stage{
		customStage("s0", 0),
		customStage("s1", 1),
		customStage("s2", 2),
		customStage("s3", 3),
		customStage("s4", 4),
	}

	out := Normalize(stages)

	wantProgress := []int{0, 25, 50, 75, 100}
	wantStatus := []StatusTag{StatusLead, StatusActive, StatusReview, StatusReview, StatusCompleted}
	for i := range out {
		if out[i].Progress != wantProgress[i] {
			t.Fatalf("index %d: expected progress %d, got %d", i, wantProgress[i], out[i].Progress)
		}
		if out[i].Status != wantStatus[i] {
			t.Fatalf("index %d: expected status %s, got %s", i, wantStatus[i], out[i].Status)
		}
	}
}

func TestNormalizeFixedStagesKeepDesignedValues(t *testing.T) {
	tenant := testTenantID(t)
	stages := InstantiateTopology(TopologyNormal, tenant)

	// Move review to the front; its values must not be re-derived.
	reordered := append([]Stage{stages[2]}, append(append([]Stage{}, stages[:2]...), stages[3:]...)...)
	out := Normalize(reordered)

	if out[0].OriginalID != TemplateReview {
		t.Fatalf("expected review first, got %s", out[0].OriginalID)
	}
	if out[0].Order != 0 {
		t.Fatalf("expected order 0, got %d", out[0].Order)
	}
	if out[0].Progress != 50 || out[0].Status != StatusReview {
		t.Fatalf("fixed stage re-derived: progress=%d status=%s", out[0].Progress, out[0].Status)
	}
}

func TestNormalizeMixedFixedAndCustom(t *testing.T) {
	tenant := testTenantID(t)
	fixed := InstantiateTopology(TopologyNormal, tenant)
	custom := customStage("design", 0)
	custom.TenantID = tenant

	stages := append(fixed[:2:2], append([]Stage{custom}, fixed[2:]...)...)
	out := Normalize(stages)

	// 6 stages, custom at index 2: round(2/5*100) = 40
	if out[2].Progress != 40 {
		t.Fatalf("expected custom progress 40, got %d", out[2].Progress)
	}
	if out[2].Status != StatusActive {
		t.Fatalf("expected custom status Active, got %s", out[2].Status)
	}
	for i, stage := range out {
		if stage.IsFixed && stage.Progress != fixedBaseline(t, stage.OriginalID) {
			t.Fatalf("fixed stage %s progress changed at index %d: %d", stage.OriginalID, i, stage.Progress)
		}
	}
}

func fixedBaseline(t *testing.T, templateID string) int {
	t.Helper()
	for _, tpl := range Catalog(TopologyNormal).Templates {
		if tpl.ID == templateID {
			return tpl.BaselineProgress
		}
	}
	for _, tpl := range Catalog(TopologyRecurring).Templates {
		if tpl.ID == templateID {
			return tpl.BaselineProgress
		}
	}
	t.Fatalf("unknown template %s", templateID)
	return 0
}
