package domain

import "strings"

// RefKind classifies how a project's stored stage reference names a stage.
type RefKind int

const (
	// RefTemplate points at a normal-topology template id, directly or
	// through a tenant suffix.
	RefTemplate RefKind = iota
	// RefLegacy is a bare custom-stage id written before ids were
	// tenant-suffixed.
	RefLegacy
	// RefLiteral is a full stored stage id.
	RefLiteral
)

// StageRef is a project's stage reference, classified once at read time so
// call sites don't re-probe the identifier shape.
type StageRef struct {
	Raw        string
	Kind       RefKind
	TemplateID string // set when Kind == RefTemplate
}

// ParseStageRef classifies a raw stage reference. Returns false when the
// project carries no reference at all.
func ParseStageRef(raw string) (StageRef, bool) {
	if raw == "" {
		return StageRef{}, false
	}
	if tpl, ok := templateBase(raw); ok {
		return StageRef{Raw: raw, Kind: RefTemplate, TemplateID: tpl}, true
	}
	if !strings.Contains(raw, "-") {
		return StageRef{Raw: raw, Kind: RefLegacy}, true
	}
	return StageRef{Raw: raw, Kind: RefLiteral}, true
}

// IsTemplate reports whether the reference names a normal-topology template.
func (r StageRef) IsTemplate() bool {
	return r.Kind == RefTemplate
}

// Matches reports whether the reference names the given stage. Three shapes
// are accepted for the same logical stage: the literal stored id, the
// explicit originalId audit field, and a base-id comparison for ids written
// with differing tenant suffixes. Matching is deliberately looser than
// identity; deletion and persistence always key on the literal id.
func (r StageRef) Matches(stage Stage) bool {
	if r.Raw == stage.ID {
		return true
	}
	if stage.OriginalID != "" && r.Raw == stage.OriginalID {
		return true
	}
	return prefixBeforeDash(r.Raw) == prefixBeforeDash(stage.ID)
}

// templateBase returns the normal-topology template id a reference names:
// the reference itself, or its pre-dash prefix when that prefix is a
// strippable template id.
func templateBase(raw string) (string, bool) {
	if raw == TemplateCompleted {
		return raw, true
	}
	if _, ok := normalBaseIDs[raw]; ok {
		return raw, true
	}
	if prefix, _, found := strings.Cut(raw, "-"); found {
		if _, ok := normalBaseIDs[prefix]; ok {
			return prefix, true
		}
	}
	return "", false
}

func prefixBeforeDash(id string) string {
	prefix, _, _ := strings.Cut(id, "-")
	return prefix
}
