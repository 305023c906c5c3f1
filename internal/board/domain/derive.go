package domain

import "math"

// Normalize recomputes order, progress and status for a stage list in its
// current array position. Fixed (template-derived) stages keep their
// designed progress and status; custom stages self-organize both purely
// from position. The input slice is not modified.
func Normalize(stages []Stage) []Stage {
	n := len(stages)
	out := make([]Stage, n)
	for i, stage := range stages {
		stage.Order = i
		if !stage.IsFixed {
			stage.Progress = positionalProgress(i, n)
			stage.Status = positionalStatus(i, n)
		}
		out[i] = stage
	}
	return out
}

func positionalProgress(index, total int) int {
	if total <= 1 {
		return 100
	}
	return int(math.Round(float64(index) / float64(total-1) * 100))
}

func positionalStatus(index, total int) StatusTag {
	switch {
	case index == 0:
		return StatusLead
	case index == total-1:
		return StatusCompleted
	case float64(index) < float64(total)/2:
		return StatusActive
	default:
		return StatusReview
	}
}
