package repair

import (
	"fmt"
	"log/slog"

	"stepkit/internal/adapter/schema"
	"stepkit/internal/logging"
	"stepkit/internal/port"
)

type Options struct {
	Heuristic bool
	Coerce    bool
	Logger    *slog.Logger
}

func DefaultOptions() Options {
	return Options{Heuristic: true, Coerce: true}
}

// Pipeline tries its strategies in order and returns the first usable
// result. Objects that already have the step shape are kept verbatim;
// others are normalized when coercion is enabled.
type Pipeline struct {
	strategies []Strategy
	coerce     bool
	logger     *slog.Logger
}

func NewPipeline(opts Options) *Pipeline {
	strategies := []Strategy{Strict{}}
	if opts.Heuristic {
		strategies = append(strategies, Heuristic{})
	}
	if opts.Coerce {
		strategies = append(strategies, Coerce{})
	}
	return NewPipelineWith(opts.Coerce, opts.Logger, strategies...)
}

func NewPipelineWith(coerce bool, logger *slog.Logger, strategies ...Strategy) *Pipeline {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Pipeline{
		strategies: strategies,
		coerce:     coerce,
		logger:     logger,
	}
}

func (p *Pipeline) Repair(candidate string) (port.RepairResult, error) {
	var failures []error

	for _, s := range p.strategies {
		attempt, err := s.Attempt(candidate)
		if err != nil {
			p.logger.Debug("repair tier failed", "tier", s.Tier().String(), "error", err)
			failures = append(failures, err)
			continue
		}

		result := port.RepairResult{
			Tier:  s.Tier(),
			Value: attempt.Value,
			Notes: append([]error(nil), failures...),
		}

		if attempt.Step != nil {
			result.Step = *attempt.Step
			result.Normalized = true
			result.Notes = append(result.Notes, attempt.Notes...)
			return result, nil
		}

		if step, ok := schema.Canonical(attempt.Data); ok {
			result.Step = step
			return result, nil
		}

		if !p.coerce {
			err := fmt.Errorf("%w: object lacks step shape", ErrUnrepairedJSON)
			failures = append(failures, err)
			continue
		}

		step, report := schema.Normalize(attempt.Data)
		result.Step = step
		result.Normalized = true
		result.Notes = append(result.Notes, report.Notes...)
		if len(report.Defaulted) > 0 {
			p.logger.Debug("step normalized", "tier", s.Tier().String(), "defaulted", report.Defaulted)
		}
		return result, nil
	}

	return port.RepairResult{}, &ExhaustedError{Raw: candidate, Attempts: failures}
}
