package repair

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"stepkit/internal/adapter/schema"
	"stepkit/internal/domain"
)

// Attempt is what one strategy recovered from a candidate. Data is set when
// the strategy decoded a JSON object; Step is set when it built the record
// itself.
type Attempt struct {
	Value map[string]any
	Data  []byte
	Step  *domain.StepRecord
	Notes []error
}

// Strategy is one repair tier.
type Strategy interface {
	Tier() domain.Tier
	Attempt(candidate string) (Attempt, error)
}

// Strict decodes the candidate as-is.
type Strict struct{}

func (Strict) Tier() domain.Tier { return domain.TierStrict }

func (Strict) Attempt(candidate string) (Attempt, error) {
	data := []byte(strings.TrimSpace(candidate))
	value, err := decodeObject(data)
	if err != nil {
		return Attempt{}, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	return Attempt{Value: value, Data: data}, nil
}

// Heuristic runs a generic JSON repair pass before decoding.
type Heuristic struct{}

func (Heuristic) Tier() domain.Tier { return domain.TierHeuristic }

func (Heuristic) Attempt(candidate string) (Attempt, error) {
	repaired, err := jsonrepair.JSONRepair(strings.TrimSpace(candidate))
	if err != nil {
		return Attempt{}, fmt.Errorf("%w: %v", ErrUnrepairedJSON, err)
	}
	data := []byte(repaired)
	value, err := decodeObject(data)
	if err != nil {
		return Attempt{}, fmt.Errorf("%w: %v", ErrUnrepairedJSON, err)
	}
	return Attempt{Value: value, Data: data}, nil
}

// Coerce scrapes whatever step fields are readable from the raw text and
// fills in the rest with defaults.
type Coerce struct{}

func (Coerce) Tier() domain.Tier { return domain.TierCoerce }

func (Coerce) Attempt(candidate string) (Attempt, error) {
	data := []byte(strings.TrimSpace(candidate))
	if len(data) == 0 {
		return Attempt{}, fmt.Errorf("%w: empty candidate", ErrRepairExhausted)
	}
	step, report := schema.Normalize(data)
	if len(report.Found) == 0 {
		return Attempt{}, fmt.Errorf("%w: no step fields found", ErrRepairExhausted)
	}
	return Attempt{Step: &step, Notes: report.Notes}, nil
}

func decodeObject(data []byte) (map[string]any, error) {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, err
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected object, got %T", value)
	}
	return obj, nil
}
