package domain

import "testing"

func TestParseStageRefEmpty(t *testing.T) {
	if _, ok := ParseStageRef(""); ok {
		t.Fatal("empty reference should not parse")
	}
}

func TestParseStageRefClassification(t *testing.T) {
	cases := []struct {
		raw      string
		kind     RefKind
		template string
	}{
		{"onboarding", RefTemplate, "onboarding"},
		{"development-6f1f64a4", RefTemplate, "development"},
		{"adjustments", RefTemplate, "adjustments"},
		{"completed", RefTemplate, "completed"},
		{"design", RefLegacy, ""},
		{"design-6f1f64a4", RefLiteral, ""},
		{"maintenance-recurring", RefLiteral, ""},
	}

	for _, tc := range cases {
		ref, ok := ParseStageRef(tc.raw)
		if !ok {
			t.Fatalf("%s: expected parse", tc.raw)
		}
		if ref.Kind != tc.kind {
			t.Fatalf("%s: expected kind %d, got %d", tc.raw, tc.kind, ref.Kind)
		}
		if ref.TemplateID != tc.template {
			t.Fatalf("%s: expected template %q, got %q", tc.raw, tc.template, ref.TemplateID)
		}
	}
}

func TestStageBaseID(t *testing.T) {
	tenant := testTenantID(t)

	withOriginal := Stage{ID: "completed-" + tenant.String(), OriginalID: "completed"}
	if got := StageBaseID(withOriginal); got != "completed" {
		t.Fatalf("originalId should win, got %q", got)
	}

	suffixed := Stage{ID: "review-" + tenant.String()}
	if got := StageBaseID(suffixed); got != "review" {
		t.Fatalf("template prefix should strip, got %q", got)
	}

	custom := Stage{ID: "design-phase"}
	if got := StageBaseID(custom); got != "design-phase" {
		t.Fatalf("custom id should pass through, got %q", got)
	}
}

func TestMatchesLiteralID(t *testing.T) {
	stage := Stage{ID: "design-phase"}
	ref, _ := ParseStageRef("design-phase")
	if !ref.Matches(stage) {
		t.Fatal("literal id should match itself")
	}
}

func TestMatchesOriginalID(t *testing.T) {
	tenant := testTenantID(t)
	stage := Stage{ID: "onboarding-" + tenant.String(), OriginalID: "onboarding"}

	ref, _ := ParseStageRef("onboarding")
	if !ref.Matches(stage) {
		t.Fatal("bare template ref should match suffixed stage via originalId")
	}
}

func TestMatchesBaseComparison(t *testing.T) {
	// A ref written under one suffix scheme must match the same logical
	// stage stored under another.
	stage := Stage{ID: "development-aaaabbbb"}
	ref, _ := ParseStageRef("development-ccccdddd")
	if !ref.Matches(stage) {
		t.Fatal("differently suffixed ids of one logical stage should match")
	}

	other := Stage{ID: "review-aaaabbbb"}
	if ref.Matches(other) {
		t.Fatal("refs must not match a different logical stage")
	}
}

func TestMatchingIsNotIdentity(t *testing.T) {
	tenant := testTenantID(t)
	stage := Stage{ID: "onboarding-" + tenant.String(), OriginalID: "onboarding"}

	ref, _ := ParseStageRef("onboarding")
	if !ref.Matches(stage) {
		t.Fatal("expected match")
	}
	if ref.Raw == stage.ID {
		t.Fatal("matching must not imply literal id equality")
	}
}
