package domain

import "testing"

func boardFixture(t *testing.T) (stages []Stage, maintenance, finished Stage) {
	t.Helper()
	tenant := testTenantID(t)
	stages = InstantiateTopology(TopologyNormal, tenant)
	maintenance = VirtualStage(Catalog(TopologyRecurring).Templates[4], tenant)
	finished = VirtualStage(Catalog(TopologyRecurring).Templates[5], tenant)
	return stages, maintenance, finished
}

func stageByTemplate(t *testing.T, stages []Stage, templateID string) Stage {
	t.Helper()
	for _, stage := range stages {
		if stage.OriginalID == templateID {
			return stage
		}
	}
	t.Fatalf("no stage for template %s", templateID)
	return Stage{}
}

var allView = ViewContext{ServiceFilter: ServiceFilterAll}

func TestResolveAllViewStatusFallback(t *testing.T) {
	stages, _, _ := boardFixture(t)
	project := Project{Status: StatusActive}

	if !ResolveColumn(project, stageByTemplate(t, stages, TemplateDevelopment), allView, false) {
		t.Fatal("project without ref should place by status")
	}
	if ResolveColumn(project, stageByTemplate(t, stages, TemplateReview), allView, false) {
		t.Fatal("status fallback must match exactly one column")
	}
}

func TestResolveAllViewRefWins(t *testing.T) {
	stages, _, _ := boardFixture(t)
	project := Project{Status: StatusActive, StageRef: "review"}

	if !ResolveColumn(project, stageByTemplate(t, stages, TemplateReview), allView, false) {
		t.Fatal("explicit ref should place the project")
	}
	if ResolveColumn(project, stageByTemplate(t, stages, TemplateDevelopment), allView, false) {
		t.Fatal("status must not override an explicit ref")
	}
}

func TestResolveAllViewRecurringByStatus(t *testing.T) {
	stages, maintenance, _ := boardFixture(t)
	project := Project{Status: StatusActive, ServiceTypes: []string{"seo"}}

	if !ResolveColumn(project, stageByTemplate(t, stages, TemplateDevelopment), allView, true) {
		t.Fatal("recurring project without ref should place by status in normal columns")
	}
	if ResolveColumn(project, maintenance, allView, true) {
		t.Fatal("non-terminal recurring project must not appear in maintenance")
	}
}

func TestResolveAllViewRecurringTerminal(t *testing.T) {
	stages, maintenance, finished := boardFixture(t)

	completed := Project{Status: StatusCompleted}
	if !ResolveColumn(completed, maintenance, allView, true) {
		t.Fatal("recurring Completed project should appear under maintenance")
	}
	if ResolveColumn(completed, stageByTemplate(t, stages, TemplateCompleted), allView, true) {
		t.Fatal("recurring Completed project must not appear under the normal completed column")
	}

	done := Project{Status: StatusFinished}
	if !ResolveColumn(done, finished, allView, true) {
		t.Fatal("recurring Finished project should appear under finished")
	}

	oneOff := Project{Status: StatusCompleted}
	if ResolveColumn(oneOff, maintenance, allView, false) {
		t.Fatal("non-recurring project must never appear in a recurring-only column")
	}
}

func TestResolveAllViewPinnedRecurringProject(t *testing.T) {
	// A recurring project explicitly dragged into a normal column stays
	// there: its template ref is authoritative over its status.
	stages, maintenance, _ := boardFixture(t)
	pinned := Project{Status: StatusCompleted, StageRef: "completed"}

	if !ResolveColumn(pinned, stageByTemplate(t, stages, TemplateCompleted), allView, true) {
		t.Fatal("pinned recurring project should stay in the normal column")
	}
	if ResolveColumn(pinned, maintenance, allView, true) {
		t.Fatal("pinned recurring project must be excluded from maintenance")
	}
}

func TestResolveSingleRecurringServiceIgnoresRef(t *testing.T) {
	tenant := testTenantID(t)
	view := ViewContext{ServiceFilter: "seo", Recurring: true}
	columns := Catalog(TopologyRecurring).Templates

	project := Project{Status: StatusReview, StageRef: "design-" + tenant.String()}
	if !ResolveColumn(project, VirtualStage(columns[2], tenant), view, true) {
		t.Fatal("single recurring view should place purely by status")
	}
	if ResolveColumn(project, VirtualStage(columns[1], tenant), view, true) {
		t.Fatal("status placement must be exact")
	}
}

func TestResolveSingleNormalServiceRequiresRef(t *testing.T) {
	stages, _, _ := boardFixture(t)
	view := ViewContext{ServiceFilter: "webdesign"}

	withRef := Project{Status: StatusLead, StageRef: "development"}
	if !ResolveColumn(withRef, stageByTemplate(t, stages, TemplateDevelopment), view, false) {
		t.Fatal("ref should place the project in the single-service view")
	}

	withoutRef := Project{Status: StatusLead}
	for _, stage := range stages {
		if ResolveColumn(withoutRef, stage, view, false) {
			t.Fatalf("project without ref must not resolve to %s", stage.ID)
		}
	}
}

func TestIsRecurringProject(t *testing.T) {
	categories := []Category{
		{Name: "webdesign", IsRecurring: false},
		{Name: "seo", IsRecurring: true},
	}

	mixed := Project{ServiceTypes: []string{"webdesign", "seo"}}
	if !IsRecurringProject(mixed, categories) {
		t.Fatal("any recurring service type makes the project recurring")
	}

	oneOff := Project{ServiceTypes: []string{"webdesign"}}
	if IsRecurringProject(oneOff, categories) {
		t.Fatal("project with only one-off services is not recurring")
	}

	unknown := Project{ServiceTypes: []string{"branding"}}
	if IsRecurringProject(unknown, categories) {
		t.Fatal("unknown service types are not recurring")
	}
}
