package repair

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedJSON is recorded when strict parsing fails.
	ErrMalformedJSON = errors.New("malformed json")
	// ErrUnrepairedJSON is recorded when heuristic repair fails or yields
	// something other than a usable object.
	ErrUnrepairedJSON = errors.New("unrepaired json")
	// ErrRepairExhausted is the only failure surfaced to callers.
	ErrRepairExhausted = errors.New("repair exhausted")
)

// ExhaustedError carries the candidate and the error of every tier tried.
type ExhaustedError struct {
	Raw      string
	Attempts []error
}

func (e *ExhaustedError) Error() string {
	if len(e.Attempts) == 0 {
		return ErrRepairExhausted.Error()
	}
	parts := make([]string, 0, len(e.Attempts))
	for _, err := range e.Attempts {
		parts = append(parts, err.Error())
	}
	return fmt.Sprintf("%s: %s", ErrRepairExhausted, strings.Join(parts, "; "))
}

func (e *ExhaustedError) Unwrap() []error {
	return append([]error{ErrRepairExhausted}, e.Attempts...)
}
