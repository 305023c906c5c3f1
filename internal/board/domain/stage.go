package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Stage is one persisted board column of a tenant's pipeline.
// Within one tenant the Order values form a dense 0-based permutation.
type Stage struct {
	ID         string
	TenantID   uuid.UUID
	Title      string
	Status     StatusTag
	Order      int
	Progress   int
	IsFixed    bool
	OriginalID string // template id a fixed stage was instantiated from
}

// InstantiateTopology materializes a topology's templates as persisted
// stages for a tenant. Ids are tenant-suffixed to avoid cross-tenant
// collisions; OriginalID records the template id for later resolution.
func InstantiateTopology(kind TopologyKind, tenantID uuid.UUID) []Stage {
	catalog := Catalog(kind)
	stages := make([]Stage, 0, len(catalog.Templates))
	for _, tpl := range catalog.Templates {
		stages = append(stages, Stage{
			ID:         tpl.ID + "-" + tenantID.String(),
			TenantID:   tenantID,
			Title:      tpl.Title,
			Status:     tpl.Status,
			Order:      tpl.Order,
			Progress:   tpl.BaselineProgress,
			IsFixed:    true,
			OriginalID: tpl.ID,
		})
	}
	return stages
}

// VirtualStage materializes a template as an unpersisted column. The
// combined view and the recurring single-service view render recurring
// columns directly from the catalog; those columns have no tenant row.
func VirtualStage(tpl StageTemplate, tenantID uuid.UUID) Stage {
	return Stage{
		ID:         tpl.ID,
		TenantID:   tenantID,
		Title:      tpl.Title,
		Status:     tpl.Status,
		Order:      tpl.Order,
		Progress:   tpl.BaselineProgress,
		IsFixed:    true,
		OriginalID: tpl.ID,
	}
}

// StageBaseID returns the logical identifier of a stage: the recorded
// template id when present, the template portion of a tenant-suffixed id
// when recognizable, else the literal id.
func StageBaseID(stage Stage) string {
	if stage.OriginalID != "" {
		return stage.OriginalID
	}
	if prefix, _, found := strings.Cut(stage.ID, "-"); found {
		if _, ok := normalBaseIDs[prefix]; ok {
			return prefix
		}
	}
	return stage.ID
}

// IsRecurringOnly reports whether the stage was instantiated from a
// recurring-only template (maintenance or finished).
func IsRecurringOnly(stage Stage) bool {
	base := stage.OriginalID
	if base == "" {
		base = stage.ID
	}
	if _, ok := recurringOnlyIDs[base]; ok {
		return true
	}
	// Tenant-suffixed literal without originalId.
	return strings.HasPrefix(stage.ID, TemplateMaintenance+"-") ||
		strings.HasPrefix(stage.ID, TemplateFinished+"-")
}

// TerminalProgress is the progress forced on projects entering a
// recurring-only terminal stage, regardless of template baseline.
const TerminalProgress = 100
