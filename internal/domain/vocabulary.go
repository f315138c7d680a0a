package domain

type PrimitiveType string

const (
	TypeString  PrimitiveType = "string"
	TypeNumber  PrimitiveType = "number"
	TypeBoolean PrimitiveType = "boolean"
	TypeObject  PrimitiveType = "object"
	TypeArray   PrimitiveType = "array"
)

var PrimitiveTypes = []PrimitiveType{TypeString, TypeNumber, TypeBoolean, TypeObject, TypeArray}

func (t PrimitiveType) Valid() bool {
	for _, p := range PrimitiveTypes {
		if p == t {
			return true
		}
	}
	return false
}

// Services is the fixed vocabulary a step's service must come from.
var Services = []string{
	"extract", "parse", "validate", "transform", "logic", "calculate",
	"format", "io", "storage", "integrate", "understand", "generate",
}

func ValidService(s string) bool {
	for _, v := range Services {
		if v == s {
			return true
		}
	}
	return false
}

const (
	DefaultName    = "UnnamedWorkflow"
	DefaultService = "extract"
	DefaultMethod  = "process"
	DefaultGoal    = "Process workflow"
)

func DefaultDescription(key string) string {
	return "Description for " + key
}
