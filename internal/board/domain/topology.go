package domain

// TopologyKind distinguishes the two canonical stage topologies.
type TopologyKind string

const (
	// TopologyNormal is the five-stage pipeline for one-off services.
	TopologyNormal TopologyKind = "normal"
	// TopologyRecurring is the six-stage pipeline for subscription services.
	TopologyRecurring TopologyKind = "recurring"
)

// Template ids for the normal topology.
const (
	TemplateOnboarding  = "onboarding"
	TemplateDevelopment = "development"
	TemplateReview      = "review"
	TemplateAdjustments = "adjustments"
	TemplateCompleted   = "completed"
)

// Template ids for the recurring topology. These carry a literal suffix so
// they are never ambiguous with tenant-suffixed normal ids.
const (
	TemplateOnboardingRecurring  = "onboarding-recurring"
	TemplateDevelopmentRecurring = "development-recurring"
	TemplateReviewRecurring      = "review-recurring"
	TemplateAdjustmentsRecurring = "adjustments-recurring"
	TemplateMaintenance          = "maintenance-recurring"
	TemplateFinished             = "finished-recurring"
)

// StageTemplate is an immutable stage blueprint from the topology catalog.
type StageTemplate struct {
	ID               string
	Title            string
	Status           StatusTag
	Order            int
	BaselineProgress int
}

// Topology is an ordered template set for one service class.
type Topology struct {
	Kind      TopologyKind
	Templates []StageTemplate
}

var normalTopology = Topology{
	Kind: TopologyNormal,
	Templates: []StageTemplate{
		{ID: TemplateOnboarding, Title: "Onboarding", Status: StatusLead, Order: 0, BaselineProgress: 10},
		{ID: TemplateDevelopment, Title: "Development", Status: StatusActive, Order: 1, BaselineProgress: 30},
		{ID: TemplateReview, Title: "Review", Status: StatusReview, Order: 2, BaselineProgress: 50},
		{ID: TemplateAdjustments, Title: "Adjustments", Status: StatusAdjustments, Order: 3, BaselineProgress: 75},
		{ID: TemplateCompleted, Title: "Completed", Status: StatusCompleted, Order: 4, BaselineProgress: 100},
	},
}

var recurringTopology = Topology{
	Kind: TopologyRecurring,
	Templates: []StageTemplate{
		{ID: TemplateOnboardingRecurring, Title: "Onboarding", Status: StatusLead, Order: 0, BaselineProgress: 10},
		{ID: TemplateDevelopmentRecurring, Title: "Development", Status: StatusActive, Order: 1, BaselineProgress: 30},
		{ID: TemplateReviewRecurring, Title: "Review", Status: StatusReview, Order: 2, BaselineProgress: 50},
		{ID: TemplateAdjustmentsRecurring, Title: "Adjustments", Status: StatusAdjustments, Order: 3, BaselineProgress: 75},
		{ID: TemplateMaintenance, Title: "Maintenance", Status: StatusCompleted, Order: 4, BaselineProgress: 100},
		{ID: TemplateFinished, Title: "Finished", Status: StatusFinished, Order: 5, BaselineProgress: 100},
	},
}

// Catalog returns the canonical topology for the given kind. The returned
// value shares the package-level template slice; callers must not mutate it.
func Catalog(kind TopologyKind) Topology {
	if kind == TopologyRecurring {
		return recurringTopology
	}
	return normalTopology
}

// normalBaseIDs are the normal-topology ids eligible for base-id stripping
// of tenant-suffixed identifiers. The terminal "completed" id is excluded:
// bootstrap always records originalId, which resolves before any string
// parsing is attempted.
var normalBaseIDs = map[string]struct{}{
	TemplateOnboarding:  {},
	TemplateDevelopment: {},
	TemplateReview:      {},
	TemplateAdjustments: {},
}

// recurringOnlyIDs are the template ids that exist only in the recurring
// topology and have no normal-topology counterpart.
var recurringOnlyIDs = map[string]struct{}{
	TemplateMaintenance: {},
	TemplateFinished:    {},
}
