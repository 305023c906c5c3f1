// Package domain provides core business rules for the board bounded context:
// stage topologies, progress/status derivation, stage reference resolution,
// and column assignment.
package domain

// StatusTag is the workflow status a stage confers on its member projects.
type StatusTag string

const (
	StatusLead        StatusTag = "Lead"
	StatusActive      StatusTag = "Active"
	StatusReview      StatusTag = "Review"
	StatusAdjustments StatusTag = "Adjustments"
	StatusCompleted   StatusTag = "Completed"
	StatusFinished    StatusTag = "Finished"
)

var knownStatusTags = map[StatusTag]struct{}{
	StatusLead:        {},
	StatusActive:      {},
	StatusReview:      {},
	StatusAdjustments: {},
	StatusCompleted:   {},
	StatusFinished:    {},
}

// IsKnownStatusTag reports whether the tag is one of the defined statuses.
func IsKnownStatusTag(tag StatusTag) bool {
	_, ok := knownStatusTags[tag]
	return ok
}

// IsTerminalRecurringStatus reports whether the status belongs to one of the
// recurring-only terminal stages (maintenance or finished).
func IsTerminalRecurringStatus(tag StatusTag) bool {
	return tag == StatusCompleted || tag == StatusFinished
}
