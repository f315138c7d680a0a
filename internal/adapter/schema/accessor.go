package schema

import (
	"strings"

	"github.com/buger/jsonparser"
)

// accessor names one place a step field may live in a model's output.
type accessor struct {
	name string
	path []string
}

type field struct {
	name      string
	accessors []accessor
}

var (
	nameField = field{"name", []accessor{
		{"name", []string{"name"}},
		{"interface.name", []string{"interface", "name"}},
	}}
	serviceField = field{"service", []accessor{
		{"service", []string{"service"}},
		{"module", []string{"module"}},
		{"interface.service", []string{"interface", "service"}},
		{"interface.module", []string{"interface", "module"}},
	}}
	methodField = field{"method", []accessor{
		{"method", []string{"method"}},
		{"function", []string{"function"}},
		{"interface.method", []string{"interface", "method"}},
		{"interface.function", []string{"interface", "function"}},
	}}
	goalField = field{"goal", []accessor{
		{"goal", []string{"goal"}},
		{"interface.goal", []string{"interface", "goal"}},
	}}
	paramsField = field{"params", []accessor{
		{"params", []string{"params"}},
		{"interface.params", []string{"interface", "params"}},
	}}
	returnsField = field{"returns", []accessor{
		{"returns", []string{"returns"}},
		{"interface.returns", []string{"interface", "returns"}},
	}}
)

// lookupString returns the first non-empty scalar reachable through the
// field's accessors.
func (f field) lookupString(data []byte) (string, string, bool) {
	for _, a := range f.accessors {
		value, typ, _, err := jsonparser.Get(data, a.path...)
		if err != nil {
			continue
		}
		if s := scalarString(value, typ); s != "" {
			return s, a.name, true
		}
	}
	return "", "", false
}

// lookupContainer returns the first object or array reachable through the
// field's accessors.
func (f field) lookupContainer(data []byte) ([]byte, jsonparser.ValueType, string, bool) {
	for _, a := range f.accessors {
		value, typ, _, err := jsonparser.Get(data, a.path...)
		if err != nil {
			continue
		}
		if typ == jsonparser.Object || typ == jsonparser.Array {
			return value, typ, a.name, true
		}
	}
	return nil, jsonparser.NotExist, "", false
}

func scalarString(value []byte, typ jsonparser.ValueType) string {
	switch typ {
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			s = string(value)
		}
		return strings.TrimSpace(s)
	case jsonparser.Number, jsonparser.Boolean:
		return strings.TrimSpace(string(value))
	default:
		return ""
	}
}
