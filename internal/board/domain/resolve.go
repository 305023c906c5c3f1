package domain

import "github.com/google/uuid"

// Project carries the board-relevant fields of a project record. The full
// record is owned by the projects bounded context.
type Project struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	ServiceTypes []string
	Status       StatusTag
	Progress     int
	StageRef     string // empty when the project has no stage reference
}

// Category is a service category read from the services bounded context.
type Category struct {
	Name        string
	IsRecurring bool
}

// ServiceFilterAll selects the combined board across all services.
const ServiceFilterAll = "all"

// ServiceFilterUncategorized selects projects whose services carry no
// category; treated as a non-recurring single-service view.
const ServiceFilterUncategorized = "uncategorized"

// ViewContext describes the board view a membership decision is made for.
type ViewContext struct {
	// ServiceFilter is ServiceFilterAll, ServiceFilterUncategorized, or a
	// single service (category) name.
	ServiceFilter string
	// Recurring reports whether the selected single service is recurring.
	// Unused for the combined view.
	Recurring bool
}

// IsRecurringProject reports whether any of the project's service types maps
// to a category flagged recurring.
func IsRecurringProject(project Project, categories []Category) bool {
	for _, svc := range project.ServiceTypes {
		for _, cat := range categories {
			if cat.IsRecurring && cat.Name == svc {
				return true
			}
		}
	}
	return false
}

// ResolveColumn decides whether the project appears under the stage in the
// given view. recurring must be IsRecurringProject for the project.
//
// The project's service mix can span both topologies, but it occupies
// exactly one board position at a time: an explicit stage reference that
// unambiguously names a real stage wins over ambient status.
func ResolveColumn(project Project, stage Stage, view ViewContext, recurring bool) bool {
	ref, hasRef := ParseStageRef(project.StageRef)

	if view.ServiceFilter == ServiceFilterAll {
		if IsRecurringOnly(stage) {
			// Recurring terminal columns collect recurring projects by
			// status, unless an explicit template ref pinned the project
			// to a normal column.
			if !recurring {
				return false
			}
			if hasRef && ref.IsTemplate() {
				return false
			}
			return project.Status == stage.Status
		}

		if recurring {
			if hasRef && ref.IsTemplate() {
				return ref.Matches(stage)
			}
			if !hasRef && !IsTerminalRecurringStatus(project.Status) {
				return project.Status == stage.Status
			}
			return false
		}

		if hasRef {
			return ref.Matches(stage)
		}
		return project.Status == stage.Status
	}

	if view.Recurring {
		// Single recurring service: placement is purely status-based.
		return project.Status == stage.Status
	}

	if !hasRef {
		return false
	}
	return ref.Matches(stage)
}
