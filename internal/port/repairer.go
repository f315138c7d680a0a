package port

import "stepkit/internal/domain"

// RepairResult is the best-effort outcome of repairing one JSON candidate.
type RepairResult struct {
	Tier       domain.Tier
	Value      map[string]any
	Step       domain.StepRecord
	Normalized bool
	Notes      []error
}

// Repairer turns a candidate span into a step record or reports that
// nothing could be recovered.
type Repairer interface {
	Repair(candidate string) (RepairResult, error)
}
