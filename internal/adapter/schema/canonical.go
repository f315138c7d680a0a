package schema

import (
	"bytes"
	"encoding/json"

	"github.com/buger/jsonparser"
	"stepkit/internal/domain"
)

// Canonical decodes data as a StepRecord only when it already has the full
// step shape: every field present with the right type, a known service and
// fully specified params. Values are taken verbatim.
func Canonical(data []byte) (domain.StepRecord, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' || !json.Valid(data) {
		return domain.StepRecord{}, false
	}

	var step domain.StepRecord
	var ok bool
	if step.Name, ok = exactString(data, "name"); !ok || step.Name == "" {
		return domain.StepRecord{}, false
	}
	if step.Service, ok = exactString(data, "service"); !ok || !domain.ValidService(step.Service) {
		return domain.StepRecord{}, false
	}
	if step.Method, ok = exactString(data, "method"); !ok || step.Method == "" {
		return domain.StepRecord{}, false
	}
	if step.Goal, ok = exactString(data, "goal"); !ok {
		return domain.StepRecord{}, false
	}
	if step.Params, ok = exactParams(data, "params"); !ok {
		return domain.StepRecord{}, false
	}
	if step.Returns, ok = exactParams(data, "returns"); !ok {
		return domain.StepRecord{}, false
	}
	return step, true
}

func exactString(data []byte, key ...string) (string, bool) {
	value, typ, _, err := jsonparser.Get(data, key...)
	if err != nil || typ != jsonparser.String {
		return "", false
	}
	s, err := jsonparser.ParseString(value)
	if err != nil {
		return "", false
	}
	return s, true
}

func exactParams(data []byte, key string) (*domain.Params, bool) {
	value, typ, _, err := jsonparser.Get(data, key)
	if err != nil || typ != jsonparser.Object {
		return nil, false
	}
	params := domain.NewParams()
	valid := true
	err = jsonparser.ObjectEach(value, func(k []byte, v []byte, vt jsonparser.ValueType, _ int) error {
		name := string(k)
		if name == "" || vt != jsonparser.Object {
			valid = false
			return nil
		}
		typeName, ok := exactString(v, "type")
		if !ok || !domain.PrimitiveType(typeName).Valid() {
			valid = false
			return nil
		}
		desc, ok := exactString(v, "description")
		if !ok {
			valid = false
			return nil
		}
		params.Set(name, domain.ParamSpec{Type: domain.PrimitiveType(typeName), Description: desc})
		return nil
	})
	if err != nil || !valid {
		return nil, false
	}
	return params, true
}
