package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/buger/jsonparser"
	"stepkit/internal/domain"
)

// ErrUnknownService marks a service value outside the vocabulary. It is
// corrected to the default service and only reported in Report.Notes.
var ErrUnknownService = errors.New("unknown service")

// Report describes what normalization found and what it had to fill in.
type Report struct {
	Found     []string
	Defaulted []string
	Notes     []error
}

// Normalize coerces a JSON object, possibly truncated, into a StepRecord.
// Missing fields are defaulted, so the returned record is always usable.
func Normalize(data []byte) (domain.StepRecord, Report) {
	var report Report
	step := domain.StepRecord{}

	if name, from, ok := nameField.lookupString(data); ok {
		report.Found = append(report.Found, from)
		step.Name = PascalCase(name)
	}
	if step.Name == "" {
		step.Name = domain.DefaultName
		report.Defaulted = append(report.Defaulted, nameField.name)
	}

	if service, from, ok := serviceField.lookupString(data); ok {
		report.Found = append(report.Found, from)
		step.Service = strings.ToLower(service)
		if !domain.ValidService(step.Service) {
			report.Notes = append(report.Notes, fmt.Errorf("%w: %q", ErrUnknownService, service))
			step.Service = domain.DefaultService
		}
	} else {
		step.Service = domain.DefaultService
		report.Defaulted = append(report.Defaulted, serviceField.name)
	}

	if method, from, ok := methodField.lookupString(data); ok {
		report.Found = append(report.Found, from)
		step.Method = SnakeCase(method)
	}
	if step.Method == "" {
		step.Method = domain.DefaultMethod
		report.Defaulted = append(report.Defaulted, methodField.name)
	}

	if goal, from, ok := goalField.lookupString(data); ok {
		report.Found = append(report.Found, from)
		step.Goal = goal
	} else {
		step.Goal = domain.DefaultGoal
		report.Defaulted = append(report.Defaulted, goalField.name)
	}

	step.Params = normalizeParamsField(data, paramsField, &report)
	step.Returns = normalizeParamsField(data, returnsField, &report)

	return step, report
}

// NormalizeValue is Normalize for an already decoded object.
func NormalizeValue(v map[string]any) (domain.StepRecord, Report, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return domain.StepRecord{}, Report{}, fmt.Errorf("encode object: %w", err)
	}
	step, report := Normalize(data)
	return step, report, nil
}

func normalizeParamsField(data []byte, f field, report *Report) *domain.Params {
	value, typ, from, ok := f.lookupContainer(data)
	if !ok {
		report.Defaulted = append(report.Defaulted, f.name)
		return domain.NewParams()
	}
	report.Found = append(report.Found, from)
	return NormalizeParams(value, typ)
}

// NormalizeParams reads a params or returns container. Objects keep their
// key order; arrays may list names or {name, type, description} objects.
func NormalizeParams(value []byte, typ jsonparser.ValueType) *domain.Params {
	params := domain.NewParams()
	switch typ {
	case jsonparser.Object:
		// Truncated objects still yield the entries read before the break.
		_ = jsonparser.ObjectEach(value, func(key []byte, v []byte, vt jsonparser.ValueType, _ int) error {
			name := strings.TrimSpace(string(key))
			if name == "" {
				return nil
			}
			params.Set(name, paramSpec(name, v, vt))
			return nil
		})
	case jsonparser.Array:
		_, _ = jsonparser.ArrayEach(value, func(v []byte, vt jsonparser.ValueType, _ int, err error) {
			if err != nil {
				return
			}
			var name string
			switch vt {
			case jsonparser.String:
				name = scalarString(v, vt)
			case jsonparser.Object:
				if raw, nt, _, err := jsonparser.Get(v, "name"); err == nil {
					name = scalarString(raw, nt)
				}
			}
			if name == "" {
				return
			}
			if vt == jsonparser.Object {
				params.Set(name, paramSpec(name, v, vt))
			} else {
				params.Set(name, defaultSpec(name))
			}
		})
	}
	return params
}

func paramSpec(name string, v []byte, vt jsonparser.ValueType) domain.ParamSpec {
	spec := defaultSpec(name)
	switch vt {
	case jsonparser.Object:
		if raw, t, _, err := jsonparser.Get(v, "type"); err == nil {
			if pt := domain.PrimitiveType(strings.ToLower(scalarString(raw, t))); pt.Valid() {
				spec.Type = pt
			}
		}
		if raw, t, _, err := jsonparser.Get(v, "description"); err == nil {
			if desc := scalarString(raw, t); desc != "" {
				spec.Description = desc
			}
		}
	case jsonparser.String:
		s := scalarString(v, vt)
		if pt := domain.PrimitiveType(strings.ToLower(s)); pt.Valid() {
			spec.Type = pt
		} else if s != "" {
			spec.Description = s
		}
	}
	return spec
}

func defaultSpec(name string) domain.ParamSpec {
	return domain.ParamSpec{Type: domain.TypeString, Description: domain.DefaultDescription(name)}
}
