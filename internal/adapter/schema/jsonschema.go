package schema

import (
	"github.com/invopop/jsonschema"
	"stepkit/internal/domain"
)

// StepSchema describes the canonical StepRecord shape.
func StepSchema() *jsonschema.Schema {
	types := make([]any, 0, len(domain.PrimitiveTypes))
	for _, t := range domain.PrimitiveTypes {
		types = append(types, string(t))
	}
	services := make([]any, 0, len(domain.Services))
	for _, s := range domain.Services {
		services = append(services, s)
	}

	param := &jsonschema.Schema{
		Type:       "object",
		Properties: jsonschema.NewProperties(),
		Required:   []string{"type", "description"},
	}
	param.Properties.Set("type", &jsonschema.Schema{Type: "string", Enum: types, Default: string(domain.TypeString)})
	param.Properties.Set("description", &jsonschema.Schema{Type: "string"})

	paramMap := func(description string) *jsonschema.Schema {
		return &jsonschema.Schema{
			Type:                 "object",
			Description:          description,
			AdditionalProperties: param,
		}
	}

	root := &jsonschema.Schema{
		Version:    jsonschema.Version,
		Title:      "StepRecord",
		Type:       "object",
		Properties: jsonschema.NewProperties(),
		Required:   []string{"name", "service", "method", "goal", "params", "returns"},
	}
	root.Properties.Set("name", &jsonschema.Schema{Type: "string", Description: "PascalCase step name", Default: domain.DefaultName})
	root.Properties.Set("service", &jsonschema.Schema{Type: "string", Enum: services, Default: domain.DefaultService})
	root.Properties.Set("method", &jsonschema.Schema{Type: "string", Description: "snake_case method name", Default: domain.DefaultMethod})
	root.Properties.Set("goal", &jsonschema.Schema{Type: "string", Default: domain.DefaultGoal})
	root.Properties.Set("params", paramMap("inputs keyed by parameter name"))
	root.Properties.Set("returns", paramMap("outputs keyed by name"))
	return root
}
